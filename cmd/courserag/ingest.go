package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var clearExisting bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [path...]",
	Short: "Index course transcripts from files or folders",
	Long: `Parses course transcript files (.txt) and indexes their content for
retrieval. A path may be a single transcript or a folder of transcripts.
Courses already indexed are skipped unless --clear is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&clearExisting, "clear", false, "Drop previously indexed content first")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	wipe := clearExisting
	for _, path := range args {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if info.IsDir() {
			courses, chunks, err := a.service.AddCourseFolder(path, wipe)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %d courses, %d chunks\n", path, courses, chunks)
		} else {
			course, chunks, err := a.service.AddCourseDocument(path)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %q, %d chunks\n", path, course.Title, chunks)
		}
		// Only the first path may clear; later paths add on top.
		wipe = false
	}

	total, titles := a.service.Analytics()
	fmt.Printf("\n%d courses indexed:\n", total)
	for _, title := range titles {
		fmt.Printf("  - %s\n", title)
	}
	return nil
}
