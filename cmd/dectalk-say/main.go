// Package main provides the dectalk-say CLI: synthesize text with DECtalk
// and play it or write it to a WAV file.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgnsrekt/dectalk-go/dectalk"
	"github.com/dgnsrekt/dectalk-go/dectalk/engine/enginetest"
	"github.com/dgnsrekt/dectalk-go/internal/audio"
)

var (
	// Version as provided by goreleaser.
	Version = ""

	configFile string
	voiceName  string
	rate       int
	volume     int
	ssmlInput  bool
	outputFile string
	useFake    bool
	debug      bool

	rootCmd = &cobra.Command{
		Use:          "dectalk-say [TEXT]",
		Short:        "Speak text with the DECtalk synthesizer",
		Long:         "Synthesize text with DECtalk and play it on the default audio device,\nor write the result to a WAV file. Reads from stdin when TEXT is \"-\".",
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		RunE:         execute,
	}

	voicesCmd = &cobra.Command{
		Use:   "voices",
		Short: "List the available voices",
		RunE:  listVoices,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.Flags().StringVarP(&voiceName, "voice", "v", "", "voice name (see the voices command)")
	rootCmd.Flags().IntVarP(&rate, "rate", "r", 0, "speaking rate in words per minute")
	rootCmd.Flags().IntVar(&volume, "volume", -1, "volume, 0-100")
	rootCmd.Flags().BoolVar(&ssmlInput, "ssml", false, "treat input as SSML and extract plain text first")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write a WAV file instead of playing")
	rootCmd.Flags().BoolVar(&useFake, "fake", false, "use the built-in fake engine (test tone output)")

	rootCmd.AddCommand(voicesCmd)
	if Version != "" {
		rootCmd.Version = Version
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig merges defaults, the config file, the environment, and flags,
// in that order. Without --config, a dectalk.yaml under the user config
// directory is used when present.
func loadConfig() (dectalk.Config, error) {
	path := configFile
	if path == "" {
		path = discoverConfigFile()
	}

	var cfg dectalk.Config
	var err error
	if path != "" {
		cfg, err = dectalk.LoadConfigFile(path)
	} else {
		cfg, err = dectalk.LoadConfig()
	}
	if err != nil {
		return cfg, err
	}

	if voiceName != "" {
		cfg.Voice = voiceName
	}
	if rate > 0 {
		cfg.Rate = rate
	}
	if volume >= 0 {
		cfg.Volume = volume
	}
	if debug {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// discoverConfigFile looks for a dectalk.yaml in the user's config
// directory. Empty when none exists.
func discoverConfigFile() string {
	v := viper.New()
	v.SetConfigName("dectalk")
	v.SetConfigType("yaml")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "dectalk"))
	}
	if err := v.ReadInConfig(); err != nil {
		return ""
	}
	return v.ConfigFileUsed()
}

// newSession builds a session over the native engine, or the fake one when
// requested.
func newSession(cfg dectalk.Config) (*dectalk.Session, error) {
	if useFake {
		return dectalk.New(cfg, enginetest.New()), nil
	}
	return dectalk.NewDefault(cfg)
}

func execute(cmd *cobra.Command, args []string) error {
	text, err := readInput(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if debug {
		log.SetLevel(log.DebugLevel)
	}

	if ssmlInput {
		text = dectalk.ExtractText(text, len(text)+1)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("nothing to say")
	}

	session, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer session.Shutdown()

	if v, ok := dectalk.VoiceByName(cfg.Voice); ok {
		if err := session.SetVoice(v); err != nil {
			return err
		}
	}
	if err := session.SetRate(cfg.Rate); err != nil {
		return err
	}
	if err := session.SetVolume(cfg.Volume); err != nil {
		return err
	}

	started := time.Now()
	var samples []int16
	err = session.SynthesizeFunc(text, func(out []int16) {
		samples = append(samples, out...)
	})
	if err != nil {
		return err
	}
	log.Debug("synthesized", "samples", len(samples),
		"duration", dectalk.SampleDuration(len(samples)), "took", time.Since(started))

	if outputFile != "" {
		return writeWAVFile(outputFile, samples)
	}
	return audio.Play(samples)
}

// readInput returns the text argument, or stdin when the argument is "-" or
// absent.
func readInput(args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

// writeWAVFile writes samples as a mono 16-bit WAV file.
func writeWAVFile(path string, samples []int16) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := audio.WriteWAV(f, samples); err != nil {
		return err
	}
	log.Info("wrote WAV", "path", path, "samples", len(samples))
	return nil
}

// listVoices prints the voice registry.
func listVoices(cmd *cobra.Command, args []string) error {
	var (
		headerStyle  = lipgloss.NewStyle().Bold(true)
		commandStyle = lipgloss.NewStyle().Faint(true)
	)

	fmt.Println(headerStyle.Render("Available voices"))
	for _, v := range dectalk.Voices() {
		fmt.Printf("  %-8s %s\n", v, commandStyle.Render(v.Command()))
	}
	return nil
}
