package cmd

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"segue/formats"
	"segue/services"
)

var (
	convertInput     string
	convertOutput    string
	convertTo        string
	convertEnrich    bool
	convertMusicRoot string
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert DJ library files between formats",
	Long: `Convert a playlist or library file to another format. With a directory
as input, every playlist file directly inside it is converted into the
output directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		if convertInput == "" || convertOutput == "" || convertTo == "" {
			log.Fatalf("convert requires --input, --output and --to")
		}
		if _, err := formats.Lookup(convertTo); err != nil {
			log.Fatalf("Unknown target format %q; valid formats: %s", convertTo, strings.Join(formats.Names(), ", "))
		}

		info, err := os.Stat(convertInput)
		if err != nil {
			log.Fatalf("Cannot read input %s: %v", convertInput, err)
		}

		if info.IsDir() {
			convertDirectory(convertInput, convertOutput)
			return
		}

		report, err := convertFile(convertInput, convertOutput)
		if err != nil {
			log.Fatalf("Conversion failed: %v", err)
		}
		if convertEnrich {
			log.Printf("Enriched %d tracks from %d readable files", report.EnrichedTracks, report.ScannedFiles)
		}
		log.Printf("Wrote %s", convertOutput)
	},
}

func init() {
	convertCmd.Flags().StringVarP(&convertInput, "input", "i", "", "input file or directory")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output file or directory")
	convertCmd.Flags().StringVar(&convertTo, "to", "", "target format (m3u, serato, rekordbox, traktor)")
	convertCmd.Flags().BoolVar(&convertEnrich, "enrich", false, "fill missing metadata from audio file tags")
	convertCmd.Flags().StringVar(&convertMusicRoot, "music-root", "", "directory track paths are resolved against when enriching")
	rootCmd.AddCommand(convertCmd)
}

// libraryFileExtensions are the file endings directory mode picks up.
var libraryFileExtensions = map[string]bool{
	".m3u":  true,
	".m3u8": true,
	".csv":  true,
	".xml":  true,
	".nml":  true,
}

// convertFile converts a single library file and writes the result to
// outPath.
func convertFile(inPath, outPath string) (services.EnrichReport, error) {
	var report services.EnrichReport

	data, err := os.ReadFile(inPath)
	if err != nil {
		return report, err
	}
	lib, err := formats.DetectAndParse(filepath.Base(inPath), data)
	if err != nil {
		return report, err
	}

	if convertEnrich {
		report = services.NewEnrichService().Enrich(lib, convertMusicRoot)
	}

	payload, _, err := formats.ExportSingle(lib, convertTo, "")
	if err != nil {
		return report, err
	}
	return report, os.WriteFile(outPath, payload, 0644)
}

// convertDirectory converts every playlist file directly inside dir into
// outDir, advancing a progress bar per file. Files that fail to parse are
// skipped, not fatal.
func convertDirectory(dir, outDir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Fatalf("Cannot read input directory %s: %v", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if libraryFileExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		log.Fatalf("No playlist files found in %s", dir)
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		log.Fatalf("Cannot create output directory %s: %v", outDir, err)
	}

	adapter, err := formats.Lookup(convertTo)
	if err != nil {
		log.Fatalf("Unknown target format %q: %v", convertTo, err)
	}
	outExt := filepath.Ext(adapter.FileName())

	bar := progressbar.Default(int64(len(files)), "converting")
	converted := 0
	enriched := 0
	for _, name := range files {
		outName := strings.TrimSuffix(name, filepath.Ext(name)) + outExt
		report, err := convertFile(filepath.Join(dir, name), filepath.Join(outDir, outName))
		if err != nil {
			log.Printf("Skipping %s: %v", name, err)
		} else {
			converted++
			enriched += report.EnrichedTracks
		}
		bar.Add(1)
	}

	if convertEnrich {
		log.Printf("Enriched %d tracks across %d files", enriched, converted)
	}
	log.Printf("Converted %d of %d files into %s", converted, len(files), outDir)
}
