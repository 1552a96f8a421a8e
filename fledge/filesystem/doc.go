// Package filesystem walks project trees while skipping the directories
// no generator should look in (node_modules, .git, build output).
//
// # Usage
//
//	err := filesystem.Walk("src", filesystem.WalkOptions{
//	    IgnorePatterns: []string{"*.min.js"},
//	}, func(path string, d fs.DirEntry) error {
//	    fmt.Println(path)
//	    return nil
//	})
package filesystem
