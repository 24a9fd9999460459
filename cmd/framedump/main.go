package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ligo-gw/frame"
	"github.com/ligo-gw/frame/internal/checksum"
)

var (
	verbose            bool
	fast               bool
	collectAllErrors   bool
	checkFileCRC       bool
	checkMD5           bool
	checkDuplicates    bool
	checkDataValid     bool
	checkExpandability bool
	requireEOFChecksum bool
	strict             bool
)

func info(cmd *cobra.Command, args []string) error {
	path := args[0]
	in, err := frame.OpenReadFile(path, nil)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer in.Close()

	count, err := in.GetFrameCount()
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	type summary struct {
		Path         string `json:"path"`
		Version      int    `json:"version"`
		ByteSwapping bool   `json:"byteSwapping"`
		FrameCount   int    `json:"frameCount"`
		TOCPresent   bool   `json:"tocPresent"`
		EOFPresent   bool   `json:"eofPresent"`
	}
	s := summary{
		Path:         path,
		Version:      int(in.Header().Version()),
		ByteSwapping: in.ByteSwapping(),
		FrameCount:   int(count),
	}
	if toc, err := in.TOC(); err == nil {
		s.TOCPresent = toc != nil
	}
	if eof, err := in.EndOfFile(); err == nil {
		s.EOFPresent = eof != nil
	}

	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func verify(cmd *cobra.Command, args []string) error {
	path := args[0]
	in, err := frame.OpenReadFile(path, nil)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer in.Close()

	if checkFileCRC {
		in.SetChecksumFile(checksum.KindCRCLDAS)
	}
	if checkMD5 {
		in.SetMD5Sum(true)
	}

	report, err := frame.Verify(in, frame.VerifyOptions{
		Strict:              strict,
		RequireEOFChecksum:  requireEOFChecksum,
		CheckFileCRC:        checkFileCRC,
		CheckMD5:            checkMD5,
		Fast:                fast,
		CheckExpandability:  checkExpandability,
		CheckDuplicateNames: checkDuplicates,
		CheckDataValidAll:   checkDataValid,
		CollectAllErrors:    collectAllErrors,
	})
	if err != nil {
		return err
	}

	if report.OK() {
		fmt.Printf("%s: OK (%d frames)\n", path, report.FrameCount)
		return nil
	}
	fmt.Printf("%s: %d error(s) (%d frames)\n", path, len(report.Errors), report.FrameCount)
	for _, e := range report.Errors {
		fmt.Println(" -", e)
	}
	os.Exit(1)
	return nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "framedump",
		Short: "Inspect and verify LIGO/Virgo frame files",
		Long:  "framedump reads gravitational-wave frame files and reports their structure or validates them against the frame format's invariants.",
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "accepted; no command's output depends on it")

	infoCmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Print a frame file's header, version, and frame count",
		Args:  cobra.ExactArgs(1),
		RunE:  info,
	}

	verifyCmd := &cobra.Command{
		Use:   "verify <file>",
		Short: "Validate a frame file against the format's invariants",
		Args:  cobra.ExactArgs(1),
		RunE:  verify,
	}
	verifyCmd.Flags().BoolVar(&fast, "fast", false, "TOC-only verification (version 8+)")
	verifyCmd.Flags().BoolVar(&collectAllErrors, "collect-all-errors", false, "report every error found instead of stopping at the first")
	verifyCmd.Flags().BoolVar(&checkFileCRC, "check-file-crc", true, "recompute and compare the file-scope CRC")
	verifyCmd.Flags().BoolVar(&checkMD5, "check-md5", false, "recompute and compare the file-scope MD5 digest")
	verifyCmd.Flags().BoolVar(&checkDuplicates, "check-duplicate-names", true, "report duplicate channel names")
	verifyCmd.Flags().BoolVar(&checkDataValid, "check-data-valid", false, "report every ADC channel marked data-invalid")
	verifyCmd.Flags().BoolVar(&checkExpandability, "check-expandability", false, "report channels that would lose information if demoted to version 3")
	verifyCmd.Flags().BoolVar(&requireEOFChecksum, "require-eof-checksum", false, "fail if the EOF record's checksum slot is empty")
	verifyCmd.Flags().BoolVar(&strict, "strict", false, "fail instead of skip when a requested checksum was never computed")

	rootCmd.AddCommand(infoCmd, verifyCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
