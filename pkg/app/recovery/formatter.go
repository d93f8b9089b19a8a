package recovery

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// FormatOutput formats a recovery report according to output format
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
		return formatTable(w, response)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func formatTable(w io.Writer, response *Response) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Field", "Value"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	rows := [][]string{
		{"File", response.File.Name},
		{"MFT entry", strconv.FormatUint(response.File.MFTIndex, 10)},
		{"Output", response.OutputPath},
		{"Outcome", response.Outcome.String()},
		{"Written", fmt.Sprintf("%s of %s", humanize.IBytes(response.BytesWritten), humanize.IBytes(response.DeclaredSize))},
		{"Runs replayed", fmt.Sprintf("%d of %d", response.RunsReplayed, response.File.Runs)},
	}
	if response.Digest != "" {
		rows = append(rows, []string{response.Hash, response.Digest})
	}
	if response.Error != "" {
		rows = append(rows, []string{"Error", response.Error})
	}
	table.AppendBulk(rows)
	table.Render()
	return nil
}
