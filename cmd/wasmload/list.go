// List command prints the module catalog from the manifest.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the modules in the manifest",
	Long: `List prints every module the manifest declares, with its priority,
feature tags, and declared size.

Example:
  wasmload list --manifest modules.yaml
  wasmload list --json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	reg, err := openRegistry()
	if err != nil {
		return err
	}

	if flagJSON {
		out, err := json.MarshalIndent(reg.All(), "", "  ")
		if err != nil {
			return fmt.Errorf("marshal modules: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRIORITY\tREQUIRED\tFEATURES\tSIZE")
	for _, d := range reg.All() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%v\t%d\n",
			d.ID, d.Name, d.Priority, d.Required, d.Features, d.EstimatedSizeBytes)
	}
	return w.Flush()
}
