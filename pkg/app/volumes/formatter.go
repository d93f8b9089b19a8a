package volumes

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// FormatOutput formats the volume list according to output format
func FormatOutput(w io.Writer, response *Response, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(response)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		encoder.SetIndent(2)
		return encoder.Encode(response)
	case "table":
		if response.Image != "" {
			return formatPartitions(w, response)
		}
		return formatVolumes(w, response)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

func formatVolumes(w io.Writer, response *Response) error {
	if len(response.Volumes) == 0 {
		fmt.Fprintln(w, "No volumes found.")
		return nil
	}

	table := newTable(w, []string{"Device", "Mountpoint", "Filesystem", "Size", "Free", "NTFS"})
	for _, v := range response.Volumes {
		table.Append([]string{
			v.Device,
			v.Mountpoint,
			v.Fstype,
			humanize.IBytes(v.Total),
			humanize.IBytes(v.Free),
			yesNo(v.NTFS),
		})
	}
	table.Render()
	return nil
}

func formatPartitions(w io.Writer, response *Response) error {
	if len(response.Partitions) == 0 {
		fmt.Fprintf(w, "No partitions found on %s.\n", response.Image)
		return nil
	}

	table := newTable(w, []string{"Partition", "Offset", "Size", "NTFS"})
	for _, p := range response.Partitions {
		table.Append([]string{
			strconv.Itoa(p.Index),
			humanize.Comma(p.Start),
			humanize.IBytes(uint64(p.Size)),
			yesNo(p.NTFS),
		})
	}
	table.Render()
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
