// Command madgo-play is the reference host program for the madgo
// decoder: it reads an MPEG-1/2 Layer I/II/III file, drives the
// Decoder's callback loop, and optionally writes a WAV file or plays
// the result through the system's audio device.
package main

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/google/uuid"
	"github.com/hajimehoshi/oto/v2"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/madgopher/madgo"
)

func main() {
	var (
		flagIn        = pflag.String("in", "", "input MPEG audio file (default: stdin)")
		flagOut       = pflag.String("out", "", "output WAV file path")
		flagPlay      = pflag.Bool("play", false, "play the decoded audio")
		flagIgnoreCRC = pflag.Bool("ignore-crc", false, "ignore Layer I/II CRC mismatches")
		flagConfig    = pflag.String("config", "", "optional YAML config file")
	)
	pflag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	runID := uuid.New().String()
	logger = logger.With("run", runID)

	cfg, err := loadConfig(*flagConfig)
	if err != nil {
		logger.Fatal("could not load config", "err", err)
	}
	cfg = cfg.merge(config{
		In:        *flagIn,
		Out:       *flagOut,
		Play:      *flagPlay,
		IgnoreCRC: *flagIgnoreCRC,
	}, pflag.CommandLine.Changed("in"), pflag.CommandLine.Changed("out"),
		pflag.CommandLine.Changed("play"), pflag.CommandLine.Changed("ignore-crc"))

	if err := run(logger, cfg); err != nil {
		logger.Fatal("run failed", "err", err)
	}
}

func run(logger *log.Logger, cfg config) error {
	buf, err := readInput(cfg.In)
	if err != nil {
		return errors.Wrap(err, "could not read input")
	}

	var (
		pcm        pcmBuffer
		sampleRate int
		frames     int
		muted      int
		total      madgo.Timer
		fed        bool
	)

	opts := madgo.Options{
		IgnoreCRC: cfg.IgnoreCRC,
		Input: func(_ interface{}, s *madgo.Stream) madgo.Flow {
			if fed {
				return madgo.FlowStop
			}
			fed = true
			s.Buffer(buf)
			return madgo.FlowContinue
		},
		Error: func(_ interface{}, s *madgo.Stream, f *madgo.Frame, err error) madgo.Flow {
			muted++
			logger.Warn("decode error", "err", err, "recoverable", s.Err.Recoverable())
			return madgo.FlowContinue
		},
		Output: func(_ interface{}, f *madgo.Frame, p *madgo.PCM) madgo.Flow {
			frames++
			sampleRate = p.SampleRate
			total.Add(f.Duration)
			pcm.appendPCM(p)
			return madgo.FlowContinue
		},
	}

	d := madgo.NewDecoder(opts)
	if err := d.Run(); err != nil {
		logger.Warn("run ended with error", "err", err)
	}

	logger.Info("decode summary",
		"frames", frames,
		"muted", muted,
		"duration", total.String(madgo.UnitMinutes),
		"sampleRate", sampleRate,
		"bytes", len(pcm.data),
	)

	if cfg.Out != "" {
		if err := writeWAV(cfg.Out, sampleRate, pcm.data); err != nil {
			return errors.Wrap(err, "could not write WAV output")
		}
	}

	if cfg.Play {
		if err := playPCM(sampleRate, pcm.data); err != nil {
			return errors.Wrap(err, "could not play audio")
		}
	}

	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		return readAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func readAll(f *os.File) ([]byte, error) {
	var buf []byte
	chunk := make([]byte, 64*1024)
	for {
		n, err := f.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
		}
		if err != nil {
			if err == io.EOF {
				return buf, nil
			}
			return buf, err
		}
	}
}

func writeWAV(path string, sampleRate int, pcmBytes []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 2, 1)
	defer enc.Close()

	intBuf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: sampleRate},
		SourceBitDepth: 16,
	}
	samples := make([]int, 0, len(pcmBytes)/2)
	for i := 0; i+1 < len(pcmBytes); i += 2 {
		samples = append(samples, int(int16(uint16(pcmBytes[i])|uint16(pcmBytes[i+1])<<8)))
	}
	intBuf.Data = samples
	return enc.Write(intBuf)
}

func playPCM(sampleRate int, pcmBytes []byte) error {
	c, ready, err := oto.NewContext(sampleRate, 2, 2)
	if err != nil {
		return err
	}
	<-ready

	p := c.NewPlayer(newByteReader(pcmBytes))
	defer p.Close()
	p.Play()

	for p.IsPlaying() {
		time.Sleep(100 * time.Millisecond)
	}
	return nil
}
