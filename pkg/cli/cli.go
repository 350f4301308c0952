package cli

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/Fepozopo/imgcp/pkg/config"
	"github.com/Fepozopo/imgcp/pkg/motion"
	"github.com/Fepozopo/imgcp/pkg/stdimg"
)

var (
	verbose bool
	logger  = log.New(os.Stderr, "imgcp: ", 0)
)

// debugf logs when verbose output is configured or IMGCP_DEBUG is set.
func debugf(format string, args ...interface{}) {
	if verbose || os.Getenv("IMGCP_DEBUG") != "" {
		logger.Printf(format, args...)
	}
}

var errNoImage = errors.New("no image loaded: open one first or pass a path as the first argument")

func usage(w io.Writer) {
	fmt.Fprintln(w, "Commands available:")
	fmt.Fprintln(w, "  <command> [args]  - apply an engine command")
	fmt.Fprintln(w, "  list              - list engine commands")
	fmt.Fprintln(w, "  help [command]    - show this message or describe a command")
	fmt.Fprintln(w, "  open <path>       - open another image")
	fmt.Fprintln(w, "  save <path>       - save current image")
	fmt.Fprintln(w, "  stats             - statistics of the last intensity command")
	fmt.Fprintln(w, "  motion <path>     - estimate motion from the current image to another frame")
	fmt.Fprintln(w, "  report <path>     - write the run report")
	fmt.Fprintln(w, "  quit              - quit")
}

// Session is the state shared by batch and interactive mode.
type Session struct {
	Engine *stdimg.Engine
	Store  *StdMetaStore
	Report *Report

	Cur    *stdimg.Buffer
	Path   string
	Format string

	cfg *config.Config
	out io.Writer
	err io.Writer
}

// NewSession builds an engine from cfg. Messages go to out, problems to errOut.
func NewSession(cfg *config.Config, out, errOut io.Writer) *Session {
	var rng stdimg.Float64Source
	if cfg.Engine.Seed != 0 {
		rng = stdimg.NewSeededSource(cfg.Engine.Seed)
	}
	e := stdimg.NewEngine(rng)
	e.Tone = cfg.Engine.Tone
	e.Noise = cfg.Engine.Noise
	return &Session{
		Engine: e,
		Store:  NewMetaStoreFromStdimg(stdimg.Commands),
		cfg:    cfg,
		out:    out,
		err:    errOut,
	}
}

// Open loads path as the current image and starts a new report.
func (s *Session) Open(path string) error {
	buf, format, err := s.load(path)
	if err != nil {
		return err
	}
	s.Cur, s.Path, s.Format = buf, path, format
	s.Report = NewReport(path, buf.Width(), buf.Height(), s.cfg.Engine.Seed)
	fmt.Fprintln(s.out, GetImageInfo(buf, format))
	return nil
}

func (s *Session) load(path string) (*stdimg.Buffer, string, error) {
	buf, format, err := LoadImage(path)
	if err != nil {
		return nil, "", err
	}
	if s.cfg.Output.Resize != "" {
		w, h, err := config.ParseResize(s.cfg.Output.Resize)
		if err != nil {
			return nil, "", err
		}
		buf = Resize(buf, w, h)
		debugf("resized %s to %dx%d", path, buf.Width(), buf.Height())
	}
	return buf, format, nil
}

// Exec applies one engine command line such as "median 3" to the current image.
func (s *Session) Exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	if s.Cur == nil {
		return errNoImage
	}
	name, err := s.Store.Resolve(fields[0])
	if err != nil {
		return err
	}
	args, err := NormalizeArgsFromStd(s.Store, name, fields[1:])
	if err != nil {
		return fmt.Errorf("input validation error: %w", err)
	}
	out, st, err := s.Engine.Apply(s.Cur, name, args)
	if err != nil {
		return fmt.Errorf("apply command error: %w", err)
	}
	s.Cur = out
	if err := s.Report.AddStep(name, args, st); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Applied %s\n", name)
	if st != nil {
		fmt.Fprintf(s.out, "  LMin=%g LMax=%g K=%.4f\n", st.LMin, st.LMax, st.K())
	}
	debugf("%s %v -> %dx%d", name, args, out.Width(), out.Height())
	return nil
}

// Batch runs commands separated by ';' or newlines and stops at the first error.
func (s *Session) Batch(script string) error {
	for _, line := range strings.FieldsFunc(script, func(r rune) bool { return r == ';' || r == '\n' }) {
		if err := s.Exec(line); err != nil {
			return fmt.Errorf("%s: %w", strings.TrimSpace(line), err)
		}
	}
	return nil
}

// Save writes the current image to path.
func (s *Session) Save(path string) error {
	if s.Cur == nil {
		return errNoImage
	}
	if err := SaveImage(path, s.Cur); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	fmt.Fprintf(s.out, "Saved to %s\n", path)
	return nil
}

// Motion estimates motion from the current image to the frame at target.
// When framesDir is set the difference, predicted, residual and
// reconstructed frames are written there as PNG.
func (s *Session) Motion(target, framesDir string) (*motion.Result, error) {
	if s.Cur == nil {
		return nil, errNoImage
	}
	tbuf, _, err := s.load(target)
	if err != nil {
		return nil, err
	}
	res, err := motion.Estimate(s.Cur, tbuf, s.cfg.Motion)
	if err != nil {
		return nil, fmt.Errorf("motion estimation failed: %w", err)
	}
	s.Report.SetMotion(target, res)
	fmt.Fprintf(s.out, "Compression ratio: %.2f (frame difference: %.2f)\n", res.CompressionRatio(), res.DiffRatio())

	if framesDir != "" {
		frames := map[string]*stdimg.Buffer{
			"difference":    res.DiffBuffer(),
			"predicted":     res.PredictedBuffer(),
			"residual":      res.ResidualBuffer(),
			"reconstructed": res.ReconstructedBuffer(),
		}
		for name, buf := range frames {
			if err := SaveImage(filepath.Join(framesDir, name+".png"), buf); err != nil {
				return nil, fmt.Errorf("failed to write %s frame: %w", name, err)
			}
		}
		debugf("motion frames written to %s", framesDir)
	}
	return res, nil
}

// PrintStats describes the statistics of the last intensity command.
func (s *Session) PrintStats() error {
	st := s.Engine.Stats()
	if st == nil {
		fmt.Fprintln(s.out, "no intensity statistics yet")
		return nil
	}
	sum, err := st.Summary()
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "LMin: %g\nLMax: %g\nK: %.4f\n", st.LMin, st.LMax, st.K())
	fmt.Fprintf(s.out, "Count: %d\nMean: %.2f\nStdDev: %.2f\nMedian: %.2f\nP05: %.2f\nP95: %.2f\n",
		sum.Count, sum.Mean, sum.StdDev, sum.Median, sum.P05, sum.P95)
	return nil
}

// WriteReport saves the session report to path.
func (s *Session) WriteReport(path string) error {
	if s.Report == nil {
		return errNoImage
	}
	if err := WriteReport(path, s.Report); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Report written to %s\n", path)
	return nil
}

// Interactive reads one command per line from in until quit or end of input.
func (s *Session) Interactive(in io.Reader) error {
	reader := bufio.NewReader(in)
	for {
		line, err := PromptLine(reader, s.out, "> ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input error: %w", err)
		}
		word, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch strings.ToLower(word) {
		case "":
			continue
		case "q", "quit", "exit":
			fmt.Fprintln(s.out, "Exiting...")
			return nil
		case "h", "help":
			if rest == "" {
				usage(s.out)
				continue
			}
			name, err := s.Store.Resolve(rest)
			if err == nil {
				var tip string
				tip, _, err = s.Store.GetCommandHelp(name)
				fmt.Fprintln(s.out, tip)
			}
			s.warn(err)
		case "list":
			for _, c := range s.Store.Commands {
				fmt.Fprintf(s.out, "  %-28s %s\n", c.Usage, c.Description)
			}
		case "open":
			s.warn(s.Open(rest))
		case "save":
			if rest == "" {
				s.warn(errors.New("no filename provided"))
				continue
			}
			s.warn(s.Save(rest))
		case "stats":
			s.warn(s.PrintStats())
		case "motion":
			_, err := s.Motion(rest, "")
			s.warn(err)
		case "report":
			s.warn(s.WriteReport(rest))
		default:
			s.warn(s.Exec(line))
		}
	}
}

func (s *Session) warn(err error) {
	if err != nil {
		fmt.Fprintf(s.err, "%v\n", err)
	}
}

// Run parses args, loads configuration and runs in batch mode when commands
// are given with -do (or the config pipeline) and interactively otherwise.
func Run(args []string, in io.Reader, out, errOut io.Writer) error {
	fs := flag.NewFlagSet("imgcp", flag.ContinueOnError)
	fs.SetOutput(errOut)
	configPath := fs.String("config", config.DefaultPath, "YAML configuration file")
	output := fs.String("o", "", "write the final image to this path")
	reportPath := fs.String("report", "", "write a YAML statistics report to this path")
	seed := fs.Int64("seed", 0, "seed for the noise generators (0 uses the config or a shared generator)")
	resize := fs.String("resize", "", "resize input frames to WxH before processing")
	script := fs.String("do", "", "commands to run, separated by ';'")
	target := fs.String("motion", "", "estimate motion from the input to this frame")
	frames := fs.String("frames", "", "directory for motion estimation frames")
	verboseFlag := fs.Bool("v", false, "verbose output")
	showVersion := fs.Bool("version", false, "print the version and exit")
	fs.Usage = func() {
		fmt.Fprintln(errOut, "usage: imgcp [flags] [input]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		v, err := CurrentVersion()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "imgcp v%s\n", v)
		return nil
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *seed != 0 {
		cfg.Engine.Seed = *seed
	}
	if *resize != "" {
		cfg.Output.Resize = *resize
	}
	if *reportPath != "" {
		cfg.Output.Report = *reportPath
	}
	if *verboseFlag {
		cfg.Output.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	verbose = cfg.Output.Verbose
	debugf("config %s loaded, seed=%d", *configPath, cfg.Engine.Seed)

	s := NewSession(cfg, out, errOut)
	if fs.NArg() > 0 {
		if err := s.Open(fs.Arg(0)); err != nil {
			return err
		}
	}

	commands := *script
	if commands == "" && s.Cur != nil {
		commands = strings.Join(cfg.Pipeline, ";")
	}
	if commands == "" && *target == "" {
		fmt.Fprintln(out, "Terminal Image Processor")
		usage(out)
		if err := s.Interactive(in); err != nil {
			return err
		}
		if cfg.Output.Report != "" && s.Report != nil {
			return s.WriteReport(cfg.Output.Report)
		}
		return nil
	}

	if s.Cur == nil {
		return errNoImage
	}
	if err := s.Batch(commands); err != nil {
		return err
	}
	if *target != "" {
		if _, err := s.Motion(*target, *frames); err != nil {
			return err
		}
	}
	if *output != "" {
		if err := s.Save(*output); err != nil {
			return err
		}
	}
	if cfg.Output.Report != "" {
		return s.WriteReport(cfg.Output.Report)
	}
	return nil
}

// RunCLI runs imgcp with the process arguments and standard streams.
func RunCLI() {
	if err := Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		logger.Fatal(err)
	}
}
