package cmd

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sarchlab/nocsim/analysis"
	"github.com/sarchlab/nocsim/datarecording"
	"github.com/sarchlab/nocsim/tracing"
)

var inspectParams struct {
	table   string
	where   string
	orderBy string
	limit   int
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <record.sqlite3>",
	Short: "Print the tables of a simulation record.",
	Long: "Without --table, lists the tables of the record and their row " +
		"counts. With --table, prints the rows of that table.",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		reader, err := datarecording.NewReader(args[0])
		if err != nil {
			return err
		}
		defer reader.Close()

		for name, sample := range tracing.Tables() {
			reader.MapTable(name, sample)
		}
		reader.MapTable(datarecording.ExecTableName, datarecording.ExecInfo{})
		reader.MapTable(analysis.PerfTable, analysis.PerfAnalyzerEntry{})

		if inspectParams.table == "" {
			return listTables(cmd.Context(), cmd.OutOrStdout(), reader)
		}

		return printTable(cmd.Context(), cmd.OutOrStdout(), reader,
			inspectParams.table, datarecording.QueryParams{
				Where:   inspectParams.where,
				OrderBy: inspectParams.orderBy,
				Limit:   inspectParams.limit,
			})
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVarP(&inspectParams.table, "table", "t", "",
		"table to print")
	inspectCmd.Flags().StringVarP(&inspectParams.where, "where", "w", "",
		"SQL condition on the rows, like \"Missed = 1\"; quote keyword "+
			"columns, as in '\"Index\" > 3'")
	inspectCmd.Flags().StringVar(&inspectParams.orderBy, "order-by", "",
		"SQL ordering of the rows")
	inspectCmd.Flags().IntVarP(&inspectParams.limit, "limit", "l", 20,
		"maximum number of rows, 0 for all")
}

func listTables(
	ctx context.Context,
	w io.Writer,
	reader datarecording.DataReader,
) error {
	t := table.NewWriter()
	t.SetTitle("Tables")
	t.AppendHeader(table.Row{"Table", "Rows"})

	for _, name := range reader.ListTables() {
		total, err := reader.Count(ctx, name, datarecording.QueryParams{})
		if err != nil {
			t.AppendRow(table.Row{name, "-"})
			continue
		}

		t.AppendRow(table.Row{name, total})
	}

	_, err := fmt.Fprintln(w, t.Render())

	return err
}

func printTable(
	ctx context.Context,
	w io.Writer,
	reader datarecording.DataReader,
	name string,
	params datarecording.QueryParams,
) error {
	if !containsString(reader.ListTables(), name) {
		return fmt.Errorf("unknown table %q", name)
	}

	rows, total, err := reader.Query(ctx, name, params)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("%s (%d of %d rows)", name, len(rows), total))

	for i, row := range rows {
		v := reflect.ValueOf(row).Elem()

		if i == 0 {
			header := table.Row{}
			for j := 0; j < v.NumField(); j++ {
				header = append(header, v.Type().Field(j).Name)
			}
			t.AppendHeader(header)
		}

		r := table.Row{}
		for j := 0; j < v.NumField(); j++ {
			r = append(r, v.Field(j).Interface())
		}
		t.AppendRow(r)
	}

	_, err = fmt.Fprintln(w, t.Render())

	return err
}

func containsString(names []string, name string) bool {
	i := sort.SearchStrings(names, name)
	return i < len(names) && names[i] == name
}
