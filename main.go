package main

import (
	"fmt"
	"os"
	"sort"

	"datasetprep/archive"
	"datasetprep/config"
	"datasetprep/database"
	"datasetprep/dataset"
	"datasetprep/logging"
	"datasetprep/scanner"
	"datasetprep/signalhandler"
	"datasetprep/types"
	"datasetprep/utils"

	"github.com/pkg/errors"
	"github.com/xyproto/files"
)

func main() {
	args := utils.ParseArguments(os.Args[1:])

	command, hasCommand := args["command"]
	if !hasCommand {
		utils.PrintUsage()
		os.Exit(1)
	}

	debugMode := utils.IsTrue(args, "debug")
	logPath := args["logfile"]
	if logPath == "" && debugMode {
		logPath = utils.DefaultLogFile
	}
	if err := logging.SetupLogger(logPath, debugMode); err != nil {
		fmt.Printf("Warning: Failed to setup logging: %v\n", err)
	} else if logPath != "" {
		fmt.Printf("Logging to: %s\n", logPath)
	}
	defer logging.CloseLogger()

	// nil interface unless a catalog was requested
	var recorder types.Recorder
	var catalog *database.Catalog
	if catalogPath, ok := args["catalog"]; ok && catalogPath != "false" {
		if catalogPath == "" || catalogPath == "true" {
			catalogPath = utils.GetDefaultCatalogPath()
		}
		var err error
		catalog, err = database.NewCatalog(catalogPath)
		if err != nil {
			logging.LogError("Cannot open catalog: %v", err)
			os.Exit(1)
		}
		defer catalog.Close()
		recorder = catalog
		fmt.Printf("Recording outcomes of run %s in %s\n", catalog.RunID(), catalogPath)
	}

	stop := signalhandler.SetupHandler(func() {
		if catalog != nil {
			catalog.Close()
		}
		logging.CloseLogger()
	})
	defer stop()

	verbose := !utils.IsTrue(args, "quiet")

	var err error
	switch command {
	case "prepare":
		err = prepare(recorder, verbose)
	case "normalize":
		err = normalize(recorder, verbose)
	case "dedupe":
		err = dedupe(recorder)
	case "package":
		err = packageDataset(recorder)
	case "all":
		if err = prepare(recorder, verbose); err == nil {
			err = packageDataset(recorder)
		}
	default:
		fmt.Printf("Unknown command: %s\n", command)
		utils.PrintUsage()
		os.Exit(1)
	}
	if err != nil {
		logging.LogError("%s failed: %v", command, err)
		os.Exit(1)
	}

	if catalog != nil {
		printCatalogStats(catalog)
	}
}

// prepare normalizes the raw tree, then deletes every duplicate found in
// the processed tree
func prepare(recorder types.Recorder, verbose bool) error {
	if err := normalize(recorder, verbose); err != nil {
		return err
	}
	if err := dedupe(recorder); err != nil {
		return err
	}

	opts := config.DefaultDedupeOptions()
	remaining, err := scanner.ListImageFiles(opts.Root, opts.Pattern)
	if err != nil {
		return err
	}
	fmt.Printf("Created %d images total in the directory %s\n", len(remaining), opts.Root)
	return nil
}

func normalize(recorder types.Recorder, verbose bool) error {
	opts := config.DefaultNormalizeOptions()
	opts.Verbose = verbose
	if !files.IsDir(opts.InDir) {
		return errors.Errorf("raw data directory %s does not exist", opts.InDir)
	}

	fmt.Printf("Converting images from %s to %s...\n", opts.InDir, opts.OutDir)
	result, err := scanner.ProcessAll(opts, nil, recorder)
	if err != nil {
		return err
	}
	logging.DebugLog("Normalize: found=%d processed=%d discarded=%d failed=%d",
		result.Found, result.Processed, result.Discarded, result.Failed)
	return nil
}

// dedupe keeps the quiet default of DedupeOptions; --quiet only affects
// the normalize progress output
func dedupe(recorder types.Recorder) error {
	opts := config.DefaultDedupeOptions()
	if !files.IsDir(opts.Root) {
		return errors.Errorf("data directory %s does not exist", opts.Root)
	}

	result, err := scanner.FindDuplicates(opts, nil, recorder)
	if err != nil {
		return err
	}
	fmt.Println("Deleting duplicate files...")
	scanner.DeleteFiles(result.Duplicates, recorder)
	return nil
}

func packageDataset(recorder types.Recorder) error {
	opts := config.DefaultPackageOptions()
	if !files.IsDir(opts.Root) {
		return errors.Errorf("data directory %s does not exist", opts.Root)
	}

	vocab := dataset.NewVocabulary(config.Labels)
	result, err := dataset.GenerateDataset(opts, vocab, nil, recorder)
	if err != nil {
		return err
	}
	logging.DebugLog("Package: %d images, %d rejected, shape %v", len(result.Labels), result.Rejected, result.Shape)

	// read the archive back so a broken write shows up now, not in training
	arrays, err := archive.Load(opts.ArchivePath)
	if err != nil {
		return err
	}
	images, labels := arrays[dataset.ImagesKey], arrays[dataset.LabelsKey]
	if images == nil || labels == nil {
		return errors.Errorf("archive %s lacks %s or %s", opts.ArchivePath, dataset.ImagesKey, dataset.LabelsKey)
	}
	fmt.Printf("Archive %s: images %v, labels %v\n", opts.ArchivePath, images.Shape, labels.Shape)
	return nil
}

func printCatalogStats(catalog *database.Catalog) {
	fmt.Printf("\nRun %s summary:\n", catalog.RunID())
	for _, stage := range []types.Stage{types.StageNormalize, types.StageDedupe, types.StagePackage} {
		stats, err := database.GetStageStats(catalog.DB(), catalog.RunID(), stage)
		if err != nil {
			logging.LogWarning("Cannot read %s stats: %v", stage, err)
			continue
		}
		if stats.Total == 0 {
			continue
		}

		statuses := make([]string, 0, len(stats.ByStatus))
		for status := range stats.ByStatus {
			statuses = append(statuses, string(status))
		}
		sort.Strings(statuses)

		fmt.Printf("  %-10s %d files", stage, stats.Total)
		for _, status := range statuses {
			fmt.Printf(", %s=%d", status, stats.ByStatus[types.Status(status)])
		}
		if stats.UniqueHashes > 0 {
			fmt.Printf(", unique fingerprints=%d", stats.UniqueHashes)
		}
		fmt.Println()
	}
}
