package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"github.com/yuvalsigall-cpu/menu-cleaner/dedupe"
	"github.com/yuvalsigall-cpu/menu-cleaner/tabular"
)

func main() {
	var in, out, lookup string
	flag.StringVar(&in, "in", "", "catalog file (CSV or XLSX)")
	flag.StringVar(&out, "out", tabular.DefaultReportName, "output workbook")
	flag.StringVar(&lookup, "lookup", "", "print the rows matching this GTIN, SKU, name or category")
	flag.Parse()

	if in == "" {
		log.Fatal("-in must be provided")
	}

	if err := run(in, out, lookup, os.Stdout); err != nil {
		log.Fatalf("clean-catalog: %v", err)
	}
}

func run(in, out, lookup string, stdout io.Writer) error {
	src, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer src.Close()

	table, err := tabular.Read(src)
	if err != nil {
		return err
	}
	schema, err := tabular.ResolveSchema(table.Headers)
	if err != nil {
		return err
	}
	report := dedupe.Run(table.Rows(schema))

	dst, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := tabular.WriteWorkbook(dst, table, report); err != nil {
		dst.Close()
		return err
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	printSummary(stdout, report.Summary())
	fmt.Fprintf(stdout, "Wrote %s\n", out)

	if lookup != "" {
		printMatches(stdout, lookup, report.Lookup(lookup))
	}
	return nil
}

func printSummary(w io.Writer, s dedupe.Summary) {
	fmt.Fprintf(w, "Rows total: %d — Kept: %d — Problematic shown: %d\n", s.Total, s.Kept, s.Problematic)
}

func printMatches(w io.Writer, query string, matches []dedupe.Match) {
	if len(matches) == 0 {
		fmt.Fprintf(w, "No rows match %q\n", query)
		return
	}
	fmt.Fprintf(w, "%d row(s) match %q\n", len(matches), query)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ROW\tGTIN\tSKU\tNAME\tCATEGORY\tSTATUS\tSUGGESTION\tNORM_KEY_COUNT\tNORM_KEY_HAS_GTIN")
	for _, m := range matches {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%d\t%t\n",
			m.Row, m.CleanGTIN, m.SKU, m.Name, m.Category, m.Status, m.Suggestion, m.NormKeyCount, m.NormKeyHasGTIN)
	}
	tw.Flush()
}
