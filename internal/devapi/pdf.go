package devapi

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/wildguard/console/internal/core/domain"
)

var pdfEscaper = strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)

// reportLines renders r as plain text lines for the PDF page.
func reportLines(r domain.Report) []string {
	lines := []string{
		"WildGuard " + r.ReportType + " report",
		r.Period + " (" + r.StartDate + " to " + r.EndDate + ")",
		"",
		fmt.Sprintf("Total detections: %d", r.Summary.TotalDetections),
		fmt.Sprintf("Total alerts: %d", r.Summary.TotalAlerts),
		"",
		"By type:",
	}
	for _, k := range sortedKeys(r.Summary.ByType) {
		lines = append(lines, fmt.Sprintf("  %s: %d", k, r.Summary.ByType[k]))
	}
	lines = append(lines, "", "Top detected objects:")
	for _, o := range r.TopDetectedObjects {
		lines = append(lines, fmt.Sprintf("  %s: %d", o.Object, o.Count))
	}
	lines = append(lines, "", "Daily trends:")
	for _, d := range r.DailyTrends {
		lines = append(lines, fmt.Sprintf("  %s: %d", d.Date, d.Count))
	}
	lines = append(lines, "",
		fmt.Sprintf("Cameras: %d total, %d active, %d inactive", r.CameraStatus.Total, r.CameraStatus.Active, r.CameraStatus.Inactive))
	return lines
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// writePDF writes a single-page PDF with one Helvetica text line per entry.
func writePDF(w io.Writer, lines []string) (int64, error) {
	var content bytes.Buffer
	content.WriteString("BT\n/F1 11 Tf\n14 TL\n50 742 Td\n")
	for _, l := range lines {
		fmt.Fprintf(&content, "(%s) Tj T*\n", pdfEscaper.Replace(l))
	}
	content.WriteString("ET\n")

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", content.Len(), content.String()),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return buf.WriteTo(w)
}
