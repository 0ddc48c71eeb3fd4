package report

import (
	"bytes"
	"fmt"
	"strings"
)

var mdEscaper = strings.NewReplacer("|", `\|`, "*", `\*`, "_", `\_`, "`", "\\`", "<", "&lt;", ">", "&gt;")

// Markdown renders r as a GitHub-flavoured Markdown document.
func Markdown(r *Report) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "# %s\n\n", Title)
	fmt.Fprintf(&b, "**Source:** %s  \n", mdEscaper.Replace(r.Source))
	fmt.Fprintf(&b, "**Generated:** %s\n\n", r.date())
	fmt.Fprintf(&b, "Estimated project cost: **%s**\n\n", FormatMoney(r.GrandTotal, r.Currency))

	if len(r.Items) > 0 {
		b.WriteString("| # | Component | Description | Qty | Unit | Rate | Total |\n")
		b.WriteString("|:---:|:---|:---|---:|:---:|---:|---:|\n")
		for _, it := range r.Items {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
				ItemNo(it.ItemNo),
				mdEscaper.Replace(it.Component),
				mdEscaper.Replace(it.Description),
				FormatQty(it.Quantity),
				mdEscaper.Replace(it.Unit),
				FormatMoney(it.Rate, r.Currency),
				FormatTotal(it.Total, r.Currency),
			)
		}
		fmt.Fprintf(&b, "| | **Grand Total** | | | | | **%s** |\n\n", FormatMoney(r.GrandTotal, r.Currency))
	}

	fmt.Fprintf(&b, "%s\n\n", ItemsLabel(len(r.Items)))

	b.WriteString("## Extraction summary\n\n")
	b.WriteString("| Measurement | Value |\n")
	b.WriteString("|:---|---:|\n")
	for _, m := range Measurements(r.Summary) {
		fmt.Fprintf(&b, "| %s | %s |\n", m.Label, FormatQty(m.Value))
	}
	return b.Bytes()
}
