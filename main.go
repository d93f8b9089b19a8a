package main

import "github.com/deploymenttheory/go-ntfs-recovery/cmd"

func main() {
	cmd.Execute()
}
