package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"lingua/audio"
	"lingua/capture"
	"lingua/config"
	"lingua/encoder"
	"lingua/export"
	"lingua/log"
	"lingua/recognizer"
	"lingua/server"
	"lingua/session"
	"lingua/shutdown"
	"lingua/translator"
)

var version = "dev"

// app bundles the wired pieces every shell needs.
type app struct {
	cfg config.Config
	st  *session.State
	rec recognizer.Recognizer
	tr  translator.Translator

	newSource func() (capture.Source, error)
}

func main() {
	// A .env next to the binary may carry GOOGLE_SPEECH_API_KEY.
	godotenv.Load()

	configFlag := flag.String("config", "", "Path to YAML config file")
	langFlag := flag.String("lang", "", "Translation target language code (fr, es, de, ur, hi, ar)")
	speechLangFlag := flag.String("speech-lang", "", "Recognition locale (e.g. en-US)")
	deviceFlag := flag.String("device", "", "Use named microphone device")
	setupFlag := flag.Bool("setup", false, "Select microphone device interactively")
	stopFlag := flag.String("stop", "", "Stop phrase that ends a capture (default: \"stop recording\")")
	inputFlag := flag.String("input", "", "Feed audio from a WAV file instead of a microphone")
	addrFlag := flag.String("addr", "", "HTTP listen address (default from config)")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	tuiFlag := flag.Bool("tui", false, "Run the terminal UI instead of the browser shell")
	headlessFlag := flag.Bool("headless", false, "Headless stdin-driven mode (requires -input)")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("lingua %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Flags win over config file and environment.
	if *langFlag != "" {
		cfg.Language = *langFlag
	}
	if *speechLangFlag != "" {
		cfg.SpeechLang = *speechLangFlag
	}
	if *deviceFlag != "" {
		cfg.Device = *deviceFlag
	}
	if *stopFlag != "" {
		cfg.StopPhrase = *stopFlag
	}
	if !session.Supported(cfg.Language) {
		fmt.Fprintf(os.Stderr, "Error: unsupported target language %q\n", cfg.Language)
		os.Exit(1)
	}

	logFlagPath := *logPathFlag
	if logFlagPath == "" {
		logFlagPath = cfg.LogPath
	}
	logPath, err := log.ResolveDir(logFlagPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}

	rec := recognizer.New()
	rec.SetLanguage(cfg.SpeechLang)
	if g, ok := rec.(*recognizer.Google); ok {
		go g.Warm()
	}
	tr := translator.NewGoogle()

	st := session.New()
	if err := st.SetTarget(cfg.Language); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log.SessionStart(rec.Name(), tr.Name(), cfg.Language)

	audioCtx, captureDevice, err := openAudio(cfg, *inputFlag, *setupFlag)
	if err != nil {
		log.Errorf("audio init error: %v", err)
		fmt.Fprintf(os.Stderr, "Error initializing audio: %v\n", err)
		os.Exit(1)
	}
	defer audioCtx.Close()
	defer captureDevice.Close()

	a := &app{
		cfg: cfg,
		st:  st,
		rec: rec,
		tr:  tr,
		newSource: func() (capture.Source, error) {
			return capture.NewMicSource(captureDevice, nil)
		},
	}

	defer func() {
		log.SessionEnd(st.HistoryLen())
		log.Close()
	}()

	switch {
	case *headlessFlag:
		if *inputFlag == "" {
			fmt.Fprintln(os.Stderr, "Usage: lingua -headless -input <wav-file>")
			os.Exit(1)
		}
		runHeadless(a, captureDevice)

	case *tuiFlag:
		runTUI(a, captureDevice)

	default:
		addr := cfg.HTTP.Addr()
		if *addrFlag != "" {
			addr = *addrFlag
		}

		ctx, cancel := context.WithCancel(context.Background())
		sigChan := make(chan os.Signal, 1)
		shutdown.Notify(sigChan)
		go func() {
			<-sigChan
			cancel()
		}()

		srv := server.New(server.Options{
			State:      st,
			Recognizer: rec,
			Translator: tr,
			NewSource:  a.newSource,
			StopPhrase: cfg.StopPhrase,
		})
		fmt.Printf("lingua %s listening on http://%s\n", version, addr)
		if err := srv.Serve(ctx, addr); err != nil {
			log.Errorf("server error: %v", err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

// openAudio builds the capture side: a WAV-fed fake when -input is given, the
// system microphone otherwise.
func openAudio(cfg config.Config, wavPath string, setup bool) (audio.Context, audio.CaptureDevice, error) {
	var ctx audio.Context
	var err error
	if wavPath != "" {
		ctx, err = audio.NewFakeContext(wavPath, true)
	} else {
		ctx, err = audio.NewContext()
	}
	if err != nil {
		return nil, nil, err
	}

	var selected *audio.DeviceInfo
	if cfg.Device != "" {
		if devices, err := ctx.Devices(); err == nil {
			for i := range devices {
				if devices[i].Name == cfg.Device {
					selected = &devices[i]
					break
				}
			}
		}
		if selected == nil {
			log.Warnf("device not found, using default: %s", cfg.Device)
		}
	} else if setup && wavPath == "" {
		selected, err = audio.SelectDevice(ctx)
		if err != nil {
			log.Warnf("device selection failed: %v", err)
			fmt.Printf("Warning: device selection failed: %v\n", err)
			fmt.Println("Falling back to default device")
			selected = nil
		}
	}

	if selected != nil && audio.IsBluetooth(selected.Name) {
		fmt.Println("Warning: Bluetooth microphones degrade recognition quality")
	}

	dev, err := ctx.NewCapture(selected, audio.CaptureConfig{
		SampleRate: encoder.SampleRate,
		Channels:   encoder.Channels,
	})
	if err != nil {
		ctx.Close()
		return nil, nil, err
	}
	log.Info("capture device: " + dev.DeviceName())
	return ctx, dev, nil
}

// startCapture runs one capture loop in the background. The returned run
// carries the update stream and the final result.
func (a *app) startCapture() (*captureRun, error) {
	src, err := a.newSource()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	loop := capture.NewLoop(a.rec, capture.Options{StopPhrase: a.cfg.StopPhrase})
	run := &captureRun{
		loop:   loop,
		cancel: cancel,
		result: make(chan captureResult, 1),
	}
	go func() {
		text, err := loop.Run(ctx, src)
		cancel()
		run.result <- captureResult{Transcript: text, Err: err}
	}()
	return run, nil
}

type captureResult struct {
	Transcript string
	Err        error
}

type captureRun struct {
	loop   *capture.Loop
	cancel context.CancelFunc
	result chan captureResult
}

func (r *captureRun) stop() { r.cancel() }

// wait drains remaining updates and returns the final result.
func (r *captureRun) wait() captureResult {
	for range r.loop.Updates() {
	}
	return <-r.result
}

// exportFiles writes both export formats into the working directory and
// returns their names.
func exportFiles(st *session.State) (string, string, error) {
	data, err := export.Document(st)
	if err != nil {
		return "", "", err
	}
	docName := export.DocumentFilename(time.Now())
	if err := os.WriteFile(docName, data, 0644); err != nil {
		return "", "", err
	}
	if err := os.WriteFile(export.TextFilename, export.Text(st), 0644); err != nil {
		return "", "", err
	}
	return docName, export.TextFilename, nil
}
