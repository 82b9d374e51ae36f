// Command filecleaner is the reference CLI for the source-tree
// harvester, extractor, and repository components. It wires the
// hand-built internal/cli engine to every subcommand in §6.1; no
// third-party CLI framework sits in front of it.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/standardbeagle/filecleaner/internal/cli"
	"github.com/standardbeagle/filecleaner/internal/config"
	"github.com/standardbeagle/filecleaner/internal/dbbridge"
	fcerrors "github.com/standardbeagle/filecleaner/internal/errors"
	"github.com/standardbeagle/filecleaner/internal/extractor"
	"github.com/standardbeagle/filecleaner/internal/harvester"
	"github.com/standardbeagle/filecleaner/internal/history"
	"github.com/standardbeagle/filecleaner/internal/logging"
	"github.com/standardbeagle/filecleaner/internal/resulttable"
	"github.com/standardbeagle/filecleaner/internal/syntax"
	"github.com/standardbeagle/filecleaner/internal/version"
	"github.com/standardbeagle/filecleaner/pkg/pathutil"
)

const (
	exitSuccess = 0
	exitParse   = 1
	exitRuntime = 2
	exitIO      = 3
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	root := buildTree()

	if err := cli.Parse(root, argv, nil); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if active := root.Active(); active != nil {
			fmt.Fprintln(os.Stderr, cli.Dense(active))
		} else {
			fmt.Fprintln(os.Stderr, cli.Dense(root))
		}
		return exitParse
	}

	logger := logging.New(logging.Options{
		Enabled: root.GetVariantView("logging").AsBool() || root.GetVariantView("logging-csv").AsBool(),
		CSV:     root.GetVariantView("logging-csv").AsBool(),
		Explain: root.GetVariantView("explain").AsBool(),
	})

	active := root.Active()
	if active == nil || root.GetVariantView("help").AsBool() || (active != nil && active.Name == "help") {
		fmt.Println(cli.Verbose(root))
		return exitSuccess
	}
	if active.Name == "version" {
		fmt.Println(version.FullInfo())
		return exitSuccess
	}

	if root.GetVariantView("print").AsBool() {
		fmt.Println(cli.ToString(root))
	}

	code := runCommand(active, root, logger)
	recordHistory(root, code, logger)
	return code
}

// recordHistory appends one completed invocation to the per-user
// history.toml document (§3.9/§4.12), best-effort: a failure to record
// is logged but never changes the invocation's own exit code.
func recordHistory(root *cli.Node, code int, logger *logrus.Logger) {
	dir, err := config.UserConfigDir()
	if err != nil {
		logging.WithComponent(logger, "history").Warn(err)
		return
	}
	path := filepath.Join(dir, "history.toml")

	doc, err := history.Load(path)
	if err != nil {
		logging.WithComponent(logger, "history").Warn(err)
		return
	}
	doc.Append(history.Entry{
		Timestamp: time.Now(),
		Command:   cli.ToString(root),
		ExitCode:  code,
	})
	if err := history.Save(path, doc); err != nil {
		logging.WithComponent(logger, "history").Warn(err)
	}
}

// runCommand dispatches one active subcommand, translating every
// returned error into the exit code its kind implies per §6.1/§7.
func runCommand(active, root *cli.Node, logger *logrus.Logger) int {
	var err error
	switch active.Name {
	case "count":
		err = runCount(active, root, logger)
	case "list":
		err = runList(active, root, logger)
	case "dir":
		err = runDir(active, root, logger)
	case "copy":
		err = runCopy(active, logger)
	case "join":
		err = runJoin(active, logger)
	case "db":
		err = runDB(active, logger)
	case "history":
		err = runHistory(active, logger)
	case "run":
		err = runRunTemplate(active, root, logger)
	default:
		err = fcerrors.NewNotFoundError("subcommand", active.Name)
	}

	if err == nil {
		return exitSuccess
	}
	logging.WithComponent(logger, active.Name).Error(err)
	fmt.Fprintln(os.Stderr, err)

	switch err.(type) {
	case *fcerrors.ParseError:
		fmt.Fprintln(os.Stderr, cli.Dense(active))
		return exitParse
	case *fcerrors.IoError:
		return exitIO
	default:
		return exitRuntime
	}
}

func buildTree() *cli.Node {
	root := cli.NewNode("filecleaner", "source-tree harvesting and cleanup tool")
	root.WithSingleDash()
	root.AddOption(cli.NewFlag("logging", "enable structured text logging to stderr"))
	root.AddOption(cli.NewFlag("logging-csv", "log in CSV-shaped lines instead of text"))
	root.AddOption(cli.NewFlag("print", "print the active command before running it"))
	root.AddOption(cli.NewFlag("explain", "raise the log level to debug for this run"))
	root.AddOption(cli.NewFlag("help", "print help and exit").WithLetter('h'))
	root.AddOption(cli.NewOption("editor", cli.TypeString, "editor command used to open files"))
	root.AddOption(cli.NewOption("mode", cli.TypeString, "operating mode override"))
	root.AddOption(cli.NewOption("settings", cli.TypeString, "path to the project settings document"))
	root.AddOption(cli.NewFlag("recursive", "recurse into subdirectories").WithLetter('R'))
	root.AddOption(cli.NewOption("output", cli.TypeString, "output file instead of stdout").WithLetter('o'))

	count := cli.NewNode("count", "count lines, optionally filtered by pattern/segment")
	count.WithSingleDash().WithParentLookup()
	count.AddOption(cli.NewOption("filter", cli.TypeString, "glob filter on candidate file names"))
	count.AddOption(cli.NewOption("pattern", cli.TypeString, "search pattern").WithLetter('p'))
	count.AddOption(cli.NewOption("source", cli.TypeString, "source path list").WithLetter('s').WithPositional(0))
	count.AddOption(cli.NewOption("segment", cli.TypeString, "segment restriction: all|code|comment|string"))
	count.AddOption(cli.NewOption("page", cli.TypeInt, "result page index"))
	count.AddOption(cli.NewOption("page-size", cli.TypeInt, "result page size"))
	count.AddOption(cli.NewOption("sort", cli.TypeString, "sort key"))
	count.AddOption(cli.NewFlag("stats", "print summary statistics"))
	count.AddOption(cli.NewFlag("table", "render output as a table"))
	count.AddOption(cli.NewFlag("R", "recurse into subdirectories").WithLetter('R'))

	list := cli.NewNode("list", "emit matching lines")
	list.WithSingleDash().WithParentLookup()
	list.AddOption(cli.NewOption("filter", cli.TypeString, "glob filter on candidate file names"))
	list.AddOption(cli.NewOption("pattern", cli.TypeString, "literal search pattern").WithLetter('p'))
	list.AddOption(cli.NewOption("source", cli.TypeString, "source path list").WithLetter('s').WithPositional(0))
	list.AddOption(cli.NewOption("rpattern", cli.TypeString, "regex search pattern"))
	list.AddOption(cli.NewOption("context", cli.TypeString, "context window, e.g. 2:2"))
	list.AddOption(cli.NewOption("expression", cli.TypeString, "alternate expression syntax").WithLetter('e'))
	list.AddOption(cli.NewOption("script", cli.TypeString, "output script path"))
	list.AddOption(cli.NewOption("max", cli.TypeInt, "maximum result count"))
	list.AddOption(cli.NewOption("segment", cli.TypeString, "segment restriction: all|code|comment|string"))
	list.AddOption(cli.NewFlag("R", "recurse into subdirectories").WithLetter('R'))
	list.AddOption(cli.NewFlag("match-all", "keep only lines where every pattern matched"))

	dir := cli.NewNode("dir", "list files matching filter")
	dir.WithSingleDash().WithParentLookup()
	dir.AddOption(cli.NewOption("filter", cli.TypeString, "glob filter on candidate file names"))
	dir.AddOption(cli.NewOption("pattern", cli.TypeString, "search pattern").WithLetter('p'))
	dir.AddOption(cli.NewOption("source", cli.TypeString, "source path list").WithLetter('s').WithPositional(0))
	dir.AddOption(cli.NewOption("script", cli.TypeString, "output script path"))
	dir.AddOption(cli.NewOption("sort", cli.TypeString, "sort key"))
	dir.AddOption(cli.NewFlag("R", "recurse into subdirectories").WithLetter('R'))
	dir.AddOption(cli.NewFlag("dedupe", "group and report files with identical content"))

	cp := cli.NewNode("copy", "copy a file")
	cp.WithSingleDash().WithParentLookup()
	cp.AddOption(cli.NewOption("source", cli.TypeString, "source file").WithLetter('s').WithPositional(0))
	cp.AddOption(cli.NewOption("destination", cli.TypeString, "destination file").WithLetter('d').WithPositional(1))
	cp.AddOption(cli.NewFlag("backup", "keep a backup of an existing destination").WithLetter('b'))

	join := cli.NewNode("join", "concatenate files")
	join.WithSingleDash().WithParentLookup()
	join.AddOption(cli.NewOption("source", cli.TypeString, "source path list").WithLetter('s').WithPositional(0))
	join.AddOption(cli.NewOption("destination", cli.TypeString, "destination file").WithLetter('d').WithPositional(1))
	join.AddOption(cli.NewFlag("backup", "keep a backup of an existing destination").WithLetter('b'))

	db := cli.NewNode("db", "open/create a SQLite file and apply a schema")
	db.WithSingleDash().WithParentLookup()
	db.AddOption(cli.NewOption("file", cli.TypeString, "SQLite file path").WithLetter('f').WithPositional(0))
	db.AddOption(cli.NewOption("settings", cli.TypeString, "settings document containing the schema"))

	hist := cli.NewNode("history", "print or initialize command history")
	hist.WithSingleDash().WithParentLookup()
	hist.AddOption(cli.NewFlag("create", "write an empty history document if absent"))

	runCmd := cli.NewNode("run", "run a command template from loaded settings")
	runCmd.WithSingleDash().WithParentLookup()
	runCmd.AddOption(cli.NewOption("name", cli.TypeString, "template name").WithPositional(0))
	runCmd.AddOption(cli.NewFlag("list", "print every template name"))

	help := cli.NewNode("help", "print help and exit")
	versionCmd := cli.NewNode("version", "print version and exit")

	root.AddSubcommand(count)
	root.AddSubcommand(list)
	root.AddSubcommand(dir)
	root.AddSubcommand(cp)
	root.AddSubcommand(join)
	root.AddSubcommand(db)
	root.AddSubcommand(hist)
	root.AddSubcommand(runCmd)
	root.AddSubcommand(help)
	root.AddSubcommand(versionCmd)

	return root
}

func runCount(n, root *cli.Node, logger *logrus.Logger) error {
	cfg, rows, err := harvestFromNode(n, root, logger)
	if err != nil {
		return err
	}
	sortRows(rows, n.GetVariantView("sort").AsString())

	if n.GetVariantView("stats").AsBool() {
		fmt.Print(statsSummary(rows))
	}
	if n.GetVariantView("table").AsBool() {
		fmt.Print(renderTable(paginateFromNode(n, rows, cfg)))
	}

	pattern := n.GetVariantView("pattern").AsString()
	if pattern == "" {
		total := 0
		for _, row := range rows {
			lineCount, err := extractor.CountLines(row.Path)
			if err != nil {
				logging.WithComponent(logger, "count").WithField("file", row.Path).Warn(err)
				continue
			}
			total += lineCount
		}
		fmt.Printf("%d lines across %d files\n", total, len(rows))
		return nil
	}

	total := 0
	for _, row := range rows {
		profile, err := syntax.ProfileForExtension(row.Extension)
		if err != nil {
			continue
		}
		matches, err := extractor.ExtractFile(context.Background(), row.Path, profile, extractor.Options{
			Patterns: []extractor.Pattern{extractor.NewLiteralPattern(pattern)},
			Segment:  effectiveSegment(n.GetVariantView("segment").AsString(), cfg),
		}, nil)
		if err != nil {
			logging.WithComponent(logger, "count").WithField("file", row.Path).Warn(err)
			continue
		}
		total += len(matches)
	}
	fmt.Printf("%d matches across %d files\n", total, len(rows))
	return nil
}

// paginateFromNode applies --page/--page-size, falling back to the
// project settings' default page size when --page-size is absent.
func paginateFromNode(n *cli.Node, rows []resulttable.Row, cfg *config.Config) []resulttable.Row {
	page := int(n.GetVariantView("page").AsInt())
	pageSize := int(n.GetVariantView("page-size").AsInt())
	if pageSize == 0 {
		pageSize = cfg.Defaults.PageSize
	}
	return paginate(rows, page, pageSize)
}

// effectiveSegment returns the CLI's --segment value, falling back to
// the project settings' default segment restriction when absent.
func effectiveSegment(raw string, cfg *config.Config) extractor.Segment {
	if raw == "" {
		raw = cfg.Defaults.Segment
	}
	return parseSegment(raw)
}

func runList(n, root *cli.Node, logger *logrus.Logger) error {
	cfg, rows, err := harvestFromNode(n, root, logger)
	if err != nil {
		return err
	}

	var patterns []extractor.Pattern
	if lit := n.GetVariantView("pattern").AsString(); lit != "" {
		patterns = append(patterns, extractor.NewLiteralPattern(lit))
	}
	if expr := n.GetVariantView("rpattern").AsString(); expr != "" {
		p, err := extractor.NewRegexPattern(expr)
		if err != nil {
			return err
		}
		patterns = append(patterns, p)
	}
	if len(patterns) == 0 {
		return fcerrors.NewParseError("", "list requires --pattern or --rpattern")
	}

	opts := extractor.Options{
		Patterns:   patterns,
		Segment:    effectiveSegment(n.GetVariantView("segment").AsString(), cfg),
		MaxResults: int(n.GetVariantView("max").AsInt()),
		MatchAll:   n.GetVariantView("match-all").AsBool(),
	}

	matched := 0
	for _, row := range rows {
		profile, err := syntax.ProfileForExtension(row.Extension)
		if err != nil {
			continue
		}
		matches, err := extractor.ExtractFile(context.Background(), row.Path, profile, opts, nil)
		if err != nil {
			logging.WithComponent(logger, "list").WithField("file", row.Path).Warn(err)
			continue
		}
		if opts.MatchAll {
			matches = resulttable.MatchAllReduce(matches, len(patterns))
		}
		for _, m := range matches {
			fmt.Printf("%s:%d:%d: %s\n", m.File, m.Line, m.Column, m.LineText)
			matched++
		}
	}
	fmt.Fprintf(os.Stderr, "%d matches\n", matched)
	return nil
}

func runDir(n, root *cli.Node, logger *logrus.Logger) error {
	_, rows, err := harvestFromNode(n, root, logger)
	if err != nil {
		return err
	}
	sortRows(rows, n.GetVariantView("sort").AsString())

	projectRoot := firstPath(n.GetVariantView("source").AsString())
	if n.GetVariantView("dedupe").AsBool() {
		for _, group := range resulttable.DuplicateGroups(rows) {
			fmt.Printf("duplicate set (%d files):\n", len(group))
			for _, row := range group {
				fmt.Println("  " + pathutil.ToRelative(row.Path, projectRoot))
			}
		}
		return nil
	}
	for _, row := range rows {
		fmt.Println(pathutil.ToRelative(row.Path, projectRoot))
	}
	return nil
}

func runCopy(n *cli.Node, logger *logrus.Logger) error {
	src := n.GetVariantView("source").AsString()
	dst := n.GetVariantView("destination").AsString()
	if src == "" || dst == "" {
		return fcerrors.NewParseError("", "copy requires --source and --destination")
	}
	if n.GetVariantView("backup").AsBool() {
		if _, err := os.Stat(dst); err == nil {
			if err := copyFileContents(dst, dst+".bak"); err != nil {
				return err
			}
		}
	}
	return copyFileContents(src, dst)
}

func runJoin(n *cli.Node, logger *logrus.Logger) error {
	srcList := n.GetVariantView("source").AsString()
	dst := n.GetVariantView("destination").AsString()
	if srcList == "" || dst == "" {
		return fcerrors.NewParseError("", "join requires --source and --destination")
	}
	if n.GetVariantView("backup").AsBool() {
		if _, err := os.Stat(dst); err == nil {
			if err := copyFileContents(dst, dst+".bak"); err != nil {
				return err
			}
		}
	}

	out, err := os.Create(dst)
	if err != nil {
		return fcerrors.NewIoError("create", dst, err)
	}
	defer out.Close()

	for _, part := range strings.FieldsFunc(srcList, func(r rune) bool { return r == ';' || r == ',' }) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		data, err := os.ReadFile(part)
		if err != nil {
			return fcerrors.NewIoError("read", part, err)
		}
		if _, err := out.Write(data); err != nil {
			return fcerrors.NewIoError("write", dst, err)
		}
	}
	return nil
}

func runDB(n *cli.Node, logger *logrus.Logger) error {
	path := n.GetVariantView("file").AsString()
	if path == "" {
		return fcerrors.NewParseError("", "db requires --file")
	}
	bridge, err := dbbridge.Open(path)
	if err != nil {
		return err
	}
	defer bridge.Close()

	if settingsPath := n.GetVariantView("settings").AsString(); settingsPath != "" {
		schema, err := os.ReadFile(settingsPath)
		if err != nil {
			return fcerrors.NewIoError("read", settingsPath, err)
		}
		if err := bridge.ApplySchema(string(schema)); err != nil {
			return err
		}
	}
	fmt.Printf("database ready at %s\n", path)
	return nil
}

func runHistory(n *cli.Node, logger *logrus.Logger) error {
	dir, err := config.UserConfigDir()
	if err != nil {
		return fcerrors.NewIoError("config dir", "", err)
	}
	path := filepath.Join(dir, "history.toml")

	if n.GetVariantView("create").AsBool() {
		return history.Create(path)
	}

	doc, err := history.Load(path)
	if err != nil {
		return err
	}
	for _, entry := range doc.NewestFirst() {
		fmt.Printf("%s\t%s\t%d\n", entry.Timestamp.Format(time.RFC3339), entry.Command, entry.ExitCode)
	}
	return nil
}

func runRunTemplate(n, root *cli.Node, logger *logrus.Logger) error {
	dir, err := config.UserConfigDir()
	if err != nil {
		return fcerrors.NewIoError("config dir", "", err)
	}
	path := filepath.Join(dir, "run-templates.toml")

	doc, err := history.Load(path)
	if err != nil {
		return err
	}

	if n.GetVariantView("list").AsBool() {
		for _, tpl := range doc.RunTemplates {
			fmt.Println(tpl.Name)
		}
		return nil
	}

	name := n.GetVariantView("name").AsString()
	if name == "" {
		return fcerrors.NewParseError("", "run requires --name or --list")
	}
	tpl := doc.Find(name)
	if tpl == nil {
		return fcerrors.NewNotFoundError("run template", name)
	}

	tokens, err := cli.Tokenize(tpl.Command, cli.ModeBasic)
	if err != nil {
		return err
	}
	replay := buildTree()
	if err := cli.Parse(replay, tokens, nil); err != nil {
		return err
	}
	doc.TouchLastRun(name, time.Now())
	if err := history.Save(path, doc); err != nil {
		return err
	}

	if active := replay.Active(); active != nil {
		return runOnly(active, replay, logger)
	}
	return nil
}

// runOnly re-dispatches a replayed run-template invocation without the
// parse/help/exit-code ceremony of run(). replayRoot is the tree active
// was parsed into, needed for global flags such as --settings.
func runOnly(active, replayRoot *cli.Node, logger *logrus.Logger) error {
	switch active.Name {
	case "count":
		return runCount(active, replayRoot, logger)
	case "list":
		return runList(active, replayRoot, logger)
	case "dir":
		return runDir(active, replayRoot, logger)
	case "copy":
		return runCopy(active, logger)
	case "join":
		return runJoin(active, logger)
	default:
		return fcerrors.NewNotFoundError("subcommand", active.Name)
	}
}

// harvestFromNode loads the project settings document (component L) for
// source's root and applies its Include/Exclude globs and Defaults.Recursive
// to a harvester.Options before walking, so the project's
// .filecleaner.kdl actually shapes every command that harvests files.
func harvestFromNode(n, root *cli.Node, logger *logrus.Logger) (*config.Config, []resulttable.Row, error) {
	source := n.GetVariantView("source").AsString()
	if source == "" {
		return nil, nil, fcerrors.NewParseError("", "missing --source")
	}
	projectRoot := firstPath(source)

	cfg, err := config.Load(projectRoot, root.GetVariantView("settings").AsString())
	if err != nil {
		logging.WithComponent(logger, "config").Warn(err)
		cfg = config.New(projectRoot)
	}

	ignore, err := harvester.LoadIgnoreFile(projectRoot)
	if err != nil {
		ignore = harvester.NewIgnoreSet()
	}
	for _, pattern := range cfg.Exclude {
		ignore.AddPattern(pattern)
	}

	depth := -1
	recursive := n.GetVariantView("R").AsBool() || n.GetVariantView("recursive").AsBool() || cfg.Defaults.Recursive
	if !recursive {
		depth = 0
	}

	table := resulttable.New()
	var cancelled atomic.Bool
	opts := harvester.Options{
		Paths:    source,
		Filter:   n.GetVariantView("filter").AsString(),
		Includes: cfg.Include,
		Depth:    depth,
		Ignore:   ignore,
		Workers:  4,
		Hash:     n.GetVariantView("dedupe").AsBool(),
	}
	if err := harvester.Harvest(context.Background(), opts, table, &cancelled); err != nil {
		return nil, nil, err
	}
	return cfg, table.Rows(), nil
}

func firstPath(list string) string {
	for _, p := range strings.FieldsFunc(list, func(r rune) bool { return r == ';' || r == ',' }) {
		p = strings.TrimSpace(p)
		if p != "" {
			return p
		}
	}
	return list
}

func parseSegment(s string) extractor.Segment {
	switch s {
	case "code":
		return extractor.SegmentCode
	case "comment":
		return extractor.SegmentComment
	case "string":
		return extractor.SegmentString
	default:
		return extractor.SegmentAll
	}
}

func copyFileContents(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fcerrors.NewIoError("read", src, err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fcerrors.NewIoError("write", dst, err)
	}
	return nil
}
