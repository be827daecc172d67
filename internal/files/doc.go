// Package files provides file discovery over the pipeline directories.
//
// Discovery lists CSV files and cleaned tables in a directory, sorted by
// name, and reports which catalog tables are absent from the raw data
// directory.
//
// Example usage:
//
//	discovery := files.NewDiscovery(paths.RootDir)
//	cleaned, err := discovery.FindCleanedTables(paths.CleanedDir)
//	for _, f := range cleaned {
//	    fmt.Println(f.Table, f.Path)
//	}
package files
