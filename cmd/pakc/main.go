// pakc packs a directory of assets into a pak archive, and lists or
// extracts archive contents.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/user"
)

func init() {
	u, err := user.Current()
	if err != nil {
		currentUserName = "unknown"
		return
	}
	currentUserName = u.Name
}

var (
	currentUserName string
	author          = flag.String("author", currentUserName, "Set the author of the archive when packing")
	version         = flag.Int64("version", 1, "Archive version number to create it with")
	pack            = flag.String("c", "", "Pack the given directory")
	list            = flag.Bool("l", false, "List archive contents")
	extract         = flag.String("e", "", "Extract the named file to stdout")
	dstFile         = flag.String("f", "out.pak", "Archive file")
)

func main() {
	var opMade bool
	flag.Parse()

	if *pack != "" && (*list || *extract != "") {
		fatal(errors.New("only one operation at a time"))
	}

	if *pack != "" {
		opMade = true
		if err := packDir(*pack, *dstFile); err != nil {
			fatal(err)
		}
	}

	if *list {
		opMade = true
		if err := listArchive(*dstFile); err != nil {
			fatal(err)
		}
	}

	if *extract != "" {
		opMade = true
		if err := extractFile(*dstFile, *extract); err != nil {
			fatal(err)
		}
	}

	if !opMade {
		flag.PrintDefaults()
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "pakc:", err)
	os.Exit(1)
}
