package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hazyhaar/surveyreport/pkg/codebook"
	"github.com/hazyhaar/surveyreport/pkg/dataset"
	"github.com/hazyhaar/surveyreport/pkg/job"
	"github.com/hazyhaar/surveyreport/pkg/tabulate"
)

var questionsCmd = &cobra.Command{
	Use:   "questions <job.yaml>",
	Short: "List the questions of a job's variable table",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuestions,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <job.yaml> <variable>",
	Short: "Show how one question is coded and what the data holds",
	Long: `Inspect prints a question's codebook in order, then every distinct value
found in the dataset column with its count and the label it maps to.
Values with no codebook entry are flagged; they pass through tabulation
under their raw form and usually explain a category mismatch.

Example:
  surveyreport inspect job.yaml q3`,
	Args: cobra.ExactArgs(2),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(inspectCmd)
}

func runQuestions(cmd *cobra.Command, args []string) error {
	j, err := job.Load(args[0])
	if err != nil {
		return err
	}
	qs, err := j.Questions()
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VARIABLE\tCODES\tTITLE")
	for _, q := range qs.Questions() {
		fmt.Fprintf(w, "%s\t%d\t%s\n", q.Variable, q.Codebook.Len(), q.Title)
	}
	return w.Flush()
}

func runInspect(cmd *cobra.Command, args []string) error {
	j, err := job.Load(args[0])
	if err != nil {
		return err
	}
	qs, err := j.Questions()
	if err != nil {
		return err
	}
	q, err := qs.Get(args[1])
	if err != nil {
		return err
	}
	frame, err := j.Frame(nil)
	if err != nil {
		return err
	}
	col, err := frame.Column(q.Variable)
	if err != nil {
		return err
	}

	fmt.Printf("variable:    %s\n", q.Variable)
	fmt.Printf("description: %s\n", q.Description)
	fmt.Printf("title:       %s\n", q.Title)
	if q.Missing != "" {
		fmt.Printf("missing:     %s\n", q.Missing)
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tLABEL")
	for _, e := range q.Codebook.Entries() {
		fmt.Fprintf(w, "%s\t%s\n", e.Key, e.Label)
	}
	w.Flush()
	fmt.Println()

	return printObserved(q, col)
}

type observed struct {
	label  string
	mapped bool
	n      int
}

func printObserved(q *codebook.Question, col []dataset.Value) error {
	byKey := make(map[codebook.Key]*observed)
	var keys []codebook.Key
	for _, v := range col {
		k := tabulate.KeyOf(v)
		o, ok := byKey[k]
		if !ok {
			label, mapped := q.Codebook.Label(k)
			if !mapped {
				label = k.String()
			}
			o = &observed{label: label, mapped: mapped}
			byKey[k] = o
			keys = append(keys, k)
		}
		o.n++
	}
	sort.SliceStable(keys, func(a, b int) bool { return byKey[keys[a]].n > byKey[keys[b]].n })

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VALUE\tCOUNT\tLABEL\t")
	for _, k := range keys {
		o := byKey[k]
		flag := ""
		if !o.mapped {
			flag = "unmapped"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", k, o.n, o.label, flag)
	}
	return w.Flush()
}
