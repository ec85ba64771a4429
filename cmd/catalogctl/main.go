// Command catalogctl inspects the message catalog.
//
//	catalogctl [-catalog path] list [-kind double] [-prefix Aircraft.]
//	catalogctl [-catalog path] lookup <name|0xID>...
//	catalogctl hash <name>...
//	catalogctl [-catalog path] verify
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/max8938/FinalCallATC/internal/catalog"
	"github.com/max8938/FinalCallATC/internal/wire"
)

var errUsage = errors.New("usage: catalogctl [-catalog path] list|lookup|hash|verify [args]")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "catalogctl: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("catalogctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	path := fs.String("catalog", "", "catalog table path (defaults to the embedded table)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return errUsage
	}
	cmd, rest := rest[0], rest[1:]

	if cmd == "hash" {
		return hashNames(w, rest)
	}
	cat, err := load(*path)
	if err != nil {
		return err
	}
	switch cmd {
	case "list":
		return list(w, cat, rest)
	case "lookup":
		return lookup(w, cat, rest)
	case "verify":
		fmt.Fprintf(w, "ok: %d entries, %d identifiers\n", cat.Len(), countIDs(cat))
		return nil
	default:
		return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
	}
}

func load(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(path)
}

func list(w io.Writer, cat *catalog.Catalog, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	kind := fs.String("kind", "", "only entries of this kind")
	prefix := fs.String("prefix", "", "only names with this prefix")
	if err := fs.Parse(args); err != nil {
		return err
	}
	var want wire.Kind
	if *kind != "" {
		k, ok := wire.ParseKind(*kind)
		if !ok {
			return fmt.Errorf("unknown kind %q", *kind)
		}
		want = k
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tKIND\tUNIT\tACCESS\tFLAG")
	for _, e := range cat.Entries() {
		if *kind != "" && e.Kind != want {
			continue
		}
		if !strings.HasPrefix(e.Name, *prefix) {
			continue
		}
		fmt.Fprintf(tw, "0x%016x\t%s\t%s\t%s\t%s\t%s\n", e.ID, e.Name, e.Kind, e.Unit, e.Access, e.Flag)
	}
	return tw.Flush()
}

func lookup(w io.Writer, cat *catalog.Catalog, keys []string) error {
	if len(keys) == 0 {
		return errors.New("lookup needs a name or 0x identifier")
	}
	for _, key := range keys {
		id := catalog.Hash(key)
		if strings.HasPrefix(key, "0x") {
			v, err := strconv.ParseUint(key[2:], 16, 64)
			if err != nil {
				return fmt.Errorf("bad identifier %q: %w", key, err)
			}
			id = v
		}
		variants := cat.Variants(id)
		if len(variants) == 0 {
			fmt.Fprintf(w, "0x%016x\t%s\n", id, catalog.UnknownName)
			continue
		}
		for _, e := range variants {
			fmt.Fprintf(w, "0x%016x\t%s\t%s\t%s\t%s\t%s\t%s\n", e.ID, e.Name, e.Symbol, e.Kind, e.Unit, e.Access, e.Flag)
			if e.Description != "" {
				fmt.Fprintf(w, "\t%s\n", e.Description)
			}
		}
	}
	return nil
}

func hashNames(w io.Writer, names []string) error {
	if len(names) == 0 {
		return errors.New("hash needs at least one name")
	}
	for _, name := range names {
		fmt.Fprintf(w, "0x%016x\t%s\n", catalog.Hash(name), name)
	}
	return nil
}

func countIDs(cat *catalog.Catalog) int {
	seen := make(map[uint64]struct{}, cat.Len())
	for _, e := range cat.Entries() {
		seen[e.ID] = struct{}{}
	}
	return len(seen)
}
