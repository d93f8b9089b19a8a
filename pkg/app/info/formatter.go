package info

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// FormatOutput formats the geometry according to output format
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
	g := response.Geometry
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Field", "Value"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	table.AppendBulk([][]string{
		{"Device", response.Device},
		{"OEM ID", g.OEMID},
		{"Bytes per sector", fmt.Sprint(g.BytesPerSector)},
		{"Sectors per cluster", fmt.Sprint(g.SectorsPerCluster)},
		{"Cluster size", humanize.IBytes(uint64(g.BytesPerCluster))},
		{"File record size", humanize.IBytes(uint64(g.FileRecordSize))},
		{"Index record size", humanize.IBytes(uint64(g.IndexRecordSize))},
		{"Total sectors", humanize.Comma(int64(g.TotalSectors))},
		{"Volume size", humanize.IBytes(g.VolumeSize)},
		{"MFT cluster", humanize.Comma(int64(g.MFTCluster))},
		{"MFT mirror cluster", humanize.Comma(int64(g.MFTMirrorCluster))},
		{"Volume serial", g.VolumeSerial},
		{"Boot signature", fmt.Sprint(g.BootSignature)},
	})
	table.Render()
	return nil
}
