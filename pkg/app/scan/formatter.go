package scan

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// FormatOutput formats scan results according to output format
func FormatOutput(w io.Writer, response *Response, format string) error {
	switch format {
	case "json":
		return formatJSON(w, response)
	case "yaml":
		return formatYAML(w, response)
	case "table":
		return formatTable(w, response)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// formatTable formats results as a table
func formatTable(w io.Writer, response *Response) error {
	if len(response.Files) == 0 {
		fmt.Fprintln(w, "No deleted files found matching the search criteria.")
		fmt.Fprintln(w, FormatSummary(response))
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "MFT", "Name", "Size", "Modified", "Runs", "Notes"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, file := range response.Files {
		modified := ""
		if !file.Modified.IsZero() {
			modified = file.Modified.UTC().Format("2006-01-02 15:04")
		}
		table.Append([]string{
			strconv.Itoa(file.Index),
			strconv.FormatUint(file.MFTIndex, 10),
			file.Name,
			humanize.IBytes(file.Size),
			modified,
			strconv.Itoa(file.Runs),
			notes(file),
		})
	}
	table.Render()

	fmt.Fprintln(w)
	fmt.Fprintln(w, FormatSummary(response))
	return nil
}

func notes(file FileResult) string {
	var n []string
	if file.Resident {
		n = append(n, "resident")
	} else if !file.Recoverable {
		n = append(n, "no runs")
	}
	if file.Compressed {
		n = append(n, "compressed")
	}
	if file.Encrypted {
		n = append(n, "encrypted")
	}
	return strings.Join(n, ", ")
}

// formatJSON formats results as JSON
func formatJSON(w io.Writer, response *Response) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}

// formatYAML formats results as YAML
func formatYAML(w io.Writer, response *Response) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	encoder.SetIndent(2)
	return encoder.Encode(response)
}

// FormatSummary provides a one-line summary of the scan
func FormatSummary(response *Response) string {
	var total uint64
	for _, file := range response.Files {
		total += file.Size
	}

	summary := fmt.Sprintf("Found %d deleted file", len(response.Records))
	if len(response.Records) != 1 {
		summary += "s"
	}
	if response.TotalFound != len(response.Records) {
		summary += fmt.Sprintf(" (%d shown)", response.TotalFound)
	}
	summary += fmt.Sprintf(" totaling %s in %s MFT entries",
		humanize.IBytes(total), humanize.Comma(int64(response.Stats.Examined)))
	if response.Stats.ReadErrors > 0 {
		summary += fmt.Sprintf(", %d unreadable", response.Stats.ReadErrors)
	}
	if response.CatalogScanID > 0 {
		summary += fmt.Sprintf("; saved as catalog scan %d", response.CatalogScanID)
	}
	return summary
}
