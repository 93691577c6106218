package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Commands understood by the driver
var Commands = []string{"prepare", "normalize", "dedupe", "package", "all"}

// DefaultLogFile is used when --debug is given without --logfile
const DefaultLogFile = "datasetprep.log"

// ParseArguments converts command-line arguments (without the program name)
// into a map of flags and values. The first known command lands under "command".
func ParseArguments(argv []string) map[string]string {
	args := make(map[string]string)

	// First, identify the command
	commandIndex := -1
	for i, arg := range argv {
		if IsCommand(arg) {
			args["command"] = arg
			commandIndex = i
			break
		}
	}

	for i := 0; i < len(argv); i++ {
		if i == commandIndex {
			continue
		}

		arg := argv[i]

		// Handle flags with equals sign (--key=value)
		if strings.HasPrefix(arg, "--") && strings.Contains(arg, "=") {
			parts := strings.SplitN(arg, "=", 2)
			flagName := strings.TrimPrefix(parts[0], "--")
			args[flagName] = parts[1]
			continue
		}

		// Handle flags without equals sign (--key value)
		if strings.HasPrefix(arg, "--") {
			flagName := strings.TrimPrefix(arg, "--")

			// Boolean flag unless a plain value follows
			if i+1 >= len(argv) || strings.HasPrefix(argv[i+1], "--") || i+1 == commandIndex {
				args[flagName] = "true"
			} else {
				args[flagName] = argv[i+1]
				i++
			}
		}
	}

	return args
}

// IsCommand reports whether name is one of Commands
func IsCommand(name string) bool {
	for _, c := range Commands {
		if c == name {
			return true
		}
	}
	return false
}

// IsTrue reports whether a boolean flag was set
func IsTrue(args map[string]string, name string) bool {
	v, ok := args[name]
	if !ok {
		return false
	}
	switch strings.ToLower(v) {
	case "", "true", "1", "yes", "on":
		return true
	}
	return false
}

// GetDefaultCatalogPath returns the default path for the run catalog,
// next to the executable
func GetDefaultCatalogPath() string {
	exePath, err := os.Executable()
	if err != nil {
		return "datasetprep.db"
	}
	return filepath.Join(filepath.Dir(exePath), "datasetprep.db")
}

// PrintUsage outputs the command-line usage instructions
func PrintUsage() {
	name := filepath.Base(os.Args[0])
	fmt.Printf("Usage:\n")
	fmt.Printf("  %s <command> [--catalog[=PATH]] [--quiet] [--debug] [--logfile=PATH]\n", name)
	fmt.Printf("\nCommands:\n")
	fmt.Printf("  prepare     : normalize the raw tree, then delete duplicates\n")
	fmt.Printf("  normalize   : resize and convert every image of the raw tree\n")
	fmt.Printf("  dedupe      : find and delete duplicates in the processed tree\n")
	fmt.Printf("  package     : write the processed tree to the dataset archive\n")
	fmt.Printf("  all         : prepare, then package\n")
	fmt.Printf("\nParameters:\n")
	fmt.Printf("  --catalog   : Record every per-file outcome in sqlite (default: %s)\n", GetDefaultCatalogPath())
	fmt.Printf("  --quiet     : Hide the normalize progress bar and counts\n")
	fmt.Printf("  --debug     : Enable debug mode (logs detailed information)\n")
	fmt.Printf("  --logfile   : Specify custom log file path (default: %s)\n", DefaultLogFile)
	fmt.Printf("\nExamples:\n")
	fmt.Printf("  %s prepare\n", name)
	fmt.Printf("  %s all --catalog=run.db --debug\n", name)
}
