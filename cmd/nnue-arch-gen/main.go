// Command nnue-arch-gen writes an NNUE architecture header from a name such
// as halfkp_256x2-32-32.
//
// Usage:
//
//	nnue-arch-gen [flags] [arch] [out_dir]
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/hailam/nnuegen/internal/arch"
	"github.com/hailam/nnuegen/internal/diagram"
	"github.com/hailam/nnuegen/internal/header"
	"github.com/hailam/nnuegen/internal/storage"
)

type options struct {
	cfg header.Config

	archSet bool
	list    bool
	history bool
	record  bool
	dbDir   string
	diagram string
}

func main() {
	var opts options
	flag.BoolVar(&opts.cfg.DryRun, "n", false, "print the header to stdout instead of writing it")
	flag.BoolVar(&opts.list, "list", false, "list architecture headers under out_dir and exit")
	flag.BoolVar(&opts.history, "history", false, "print the generation history (or the latest record for arch) and exit")
	flag.BoolVar(&opts.record, "record", false, "record the generated header in the history database")
	flag.StringVar(&opts.dbDir, "db", "", "history database directory (default: platform data directory)")
	flag.StringVar(&opts.diagram, "diagram", "", "also write a PNG diagram of the layer chain to this file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [arch] [out_dir]\n\n", os.Args[0])
		fmt.Fprintf(flag.CommandLine.Output(), "  arch     architecture name, e.g. halfkp_1024x2-8-64 (default %s)\n", arch.DefaultName)
		fmt.Fprintf(flag.CommandLine.Output(), "  out_dir  output directory (default: current directory)\n\n")
		fmt.Fprintf(flag.CommandLine.Output(), "Flags must come before arch and out_dir.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := parseArgs(flag.Args(), &opts); err != nil {
		fmt.Fprintf(flag.CommandLine.Output(), "%v\n\n", err)
		flag.Usage()
		os.Exit(2)
	}

	log.SetFlags(0)
	os.Exit(run(opts, os.Stdout))
}

// parseArgs fills the arch and output directory from the positional
// arguments. The flag package stops at the first non-flag argument, so a
// flag written after arch would otherwise be taken as out_dir.
func parseArgs(args []string, opts *options) error {
	def := header.DefaultConfig()
	opts.cfg.Arch = def.Arch
	opts.cfg.OutDir = def.OutDir

	if len(args) > 2 {
		return fmt.Errorf("too many arguments: %s", strings.Join(args, " "))
	}
	for _, a := range args {
		if strings.HasPrefix(a, "-") {
			return fmt.Errorf("flag %s after positional arguments; flags must come before arch and out_dir", a)
		}
	}
	if len(args) > 0 {
		opts.cfg.Arch = args[0]
		opts.archSet = true
	}
	if len(args) > 1 {
		opts.cfg.OutDir = args[1]
	}
	return nil
}

// run executes one invocation and returns the process exit status.
func run(opts options, stdout io.Writer) int {
	if opts.history && opts.archSet {
		if err := printLatest(opts.dbDir, opts.cfg.Arch, stdout); err != nil {
			log.Printf("Error : %v", err)
			return 1
		}
		return 0
	}
	if opts.history {
		if err := printHistory(opts.dbDir, stdout); err != nil {
			log.Printf("Error : %v", err)
			return 1
		}
		return 0
	}
	if opts.list {
		if err := printList(opts.cfg.OutDir, stdout); err != nil {
			log.Printf("Error : %v", err)
			return 1
		}
		return 0
	}

	log.Printf("architecture name : %s", opts.cfg.Arch)
	log.Printf("output file path  : %s", opts.cfg.Path())

	res, err := header.Generate(opts.cfg)
	if errors.Is(err, header.ErrDestinationExists) {
		log.Printf("Warning : file already exists. stop.")
		return 0
	}
	if err != nil {
		log.Printf("Error : %v", err)
		return 1
	}

	d := res.Descriptor
	log.Printf("input feature     : %s", d.Feature)
	log.Printf("layers feature    : [%s]", strings.Join(d.Layers.Fields(), " "))

	hash, hashErr := d.NetworkHash()
	if hashErr == nil {
		log.Printf("network hash      : 0x%08x", hash)
	}

	if opts.cfg.DryRun {
		fmt.Fprint(stdout, res.Content)
	}

	if opts.diagram != "" {
		if err := diagram.SaveFile(opts.diagram, d); err != nil {
			log.Printf("Error : %v", err)
			return 1
		}
		log.Printf("diagram           : %s", opts.diagram)
	}

	if opts.record && res.Written {
		rec := storage.NewRecord(d.Name, res.Path, d.GuardMacro(), res.Content)
		if hashErr == nil {
			rec.SetNetworkHash(hash)
		}
		if err := recordHistory(opts.dbDir, rec); err != nil {
			log.Printf("Warning : history not recorded: %v", err)
		}
	}

	log.Printf("..done!")
	return 0
}

func openStorage(dir string) (*storage.Storage, error) {
	if dir != "" {
		return storage.Open(dir)
	}
	return storage.NewStorage()
}

func recordHistory(dir string, rec *storage.Record) error {
	s, err := openStorage(dir)
	if err != nil {
		return err
	}
	defer s.Close()
	return s.Record(rec)
}

func printHistory(dir string, w io.Writer) error {
	s, err := openStorage(dir)
	if err != nil {
		return err
	}
	defer s.Close()

	records, err := s.History()
	if err != nil {
		return err
	}
	for i := range records {
		printRecord(w, &records[i])
	}
	return nil
}

func printLatest(dir, name string, w io.Writer) error {
	s, err := openStorage(dir)
	if err != nil {
		return err
	}
	defer s.Close()

	r, ok, err := s.Latest(name)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintf(w, "no history for %s\n", name)
		return nil
	}
	printRecord(w, r)
	return nil
}

func printRecord(w io.Writer, r *storage.Record) {
	hash := "-"
	if r.HasHash {
		hash = fmt.Sprintf("0x%08x", r.NetworkHash)
	}
	fmt.Fprintf(w, "%s  %-28s %s  %s  %016x\n",
		r.GeneratedAt.Format("2006-01-02 15:04:05"), r.Arch, hash, r.Path, r.Digest)
}

func printList(dir string, w io.Writer) error {
	entries, err := header.ListGenerated(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		status := "generated"
		if !e.Guarded {
			status = "foreign"
		}
		fmt.Fprintf(w, "%-10s %-28s %s\n", status, e.Descriptor.Name, e.Path)
	}
	return nil
}
