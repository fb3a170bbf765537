package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"lingua/audio"
	"lingua/log"
)

// runHeadless drives the app from stdin commands, with audio coming from the
// WAV file behind -input. One command per line:
//
//	START            begin a capture
//	STOP             cancel the running capture
//	WAIT             block until the capture ends, print the transcript
//	WAIT_AUDIO_DONE  block until the WAV content has been fully delivered
//	TRANSLATE        run the translate step and print the result
//	LANG <code>      switch the target language
//	TEXT <text>      replace the recognized text
//	STATE            print recognized and translated text
//	EXPORT           write both export files to the working directory
//	SLEEP <ms>       pause
//	QUIT             exit
func runHeadless(a *app, dev audio.CaptureDevice) {
	fakeCapture, _ := dev.(*audio.FakeCapture)
	var run *captureRun

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		cmd, arg, _ := strings.Cut(line, " ")

		switch cmd {
		case "", "#":

		case "START":
			if run != nil {
				fmt.Println("ERROR capture already running")
				continue
			}
			var err error
			run, err = a.startCapture()
			if err != nil {
				run = nil
				fmt.Printf("ERROR %v\n", err)
			}

		case "STOP":
			if run != nil {
				run.stop()
			}

		case "WAIT":
			if run == nil {
				fmt.Println("ERROR no capture running")
				continue
			}
			res := run.wait()
			run = nil
			if res.Err != nil && !errors.Is(res.Err, context.Canceled) {
				fmt.Printf("ERROR %v\n", res.Err)
			}
			a.st.SetRecognized(res.Transcript)
			fmt.Printf("TRANSCRIPT %s\n", res.Transcript)

		case "WAIT_AUDIO_DONE":
			if fakeCapture != nil {
				<-fakeCapture.AudioDone()
			}

		case "TRANSLATE":
			out, err := a.st.Translate(context.Background(), a.tr)
			if err != nil {
				fmt.Printf("ERROR %v\n", err)
				continue
			}
			fmt.Printf("TRANSLATED %s\n", out)

		case "LANG":
			if err := a.st.SetTarget(arg); err != nil {
				fmt.Printf("ERROR %v\n", err)
			}

		case "TEXT":
			a.st.SetRecognized(arg)

		case "STATE":
			fmt.Printf("RECOGNIZED %s\n", a.st.Recognized())
			fmt.Printf("TRANSLATED %s\n", a.st.Translated())

		case "EXPORT":
			docName, txtName, err := exportFiles(a.st)
			if err != nil {
				fmt.Printf("ERROR %v\n", err)
				continue
			}
			fmt.Printf("EXPORTED %s %s\n", docName, txtName)

		case "SLEEP":
			if ms, err := strconv.Atoi(arg); err == nil {
				time.Sleep(time.Duration(ms) * time.Millisecond)
			}

		case "QUIT":
			return

		default:
			fmt.Printf("ERROR unknown command %q\n", cmd)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Errorf("stdin read error: %v", err)
	}
}
