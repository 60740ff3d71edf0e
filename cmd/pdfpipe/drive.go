package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"pdfpipe/internal/config"
	"pdfpipe/internal/source"
)

var driveToken string

var driveCmd = &cobra.Command{
	Use:   "drive <folder-id> [metadata]",
	Short: "Ingest every PDF in a Google Drive folder",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		token := driveToken
		if token == "" {
			token = os.Getenv("GOOGLE_ACCESS_TOKEN")
		}
		if token == "" {
			return fmt.Errorf("an access token is required (--token or GOOGLE_ACCESS_TOKEN)")
		}

		cfg := config.Load()
		p, closer, err := buildPipeline(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closer()

		drv, err := source.NewDrive(cmd.Context(), token)
		if err != nil {
			return err
		}
		files, err := drv.ListPDFs(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		metadata := optionalArg(args, 1)

		stage, err := os.MkdirTemp(cfg.TmpDir, "pdfpipe-drive-")
		if err != nil {
			return err
		}
		defer func() {
			if err := os.RemoveAll(stage); err != nil {
				log.Printf("Warning: failed to remove staging dir %s: %v", stage, err)
			}
		}()

		failed := 0
		for _, f := range files {
			log.Println("Downloading:", f.Name)
			local, err := drv.Download(cmd.Context(), f, stage)
			if err != nil {
				log.Println("skip file:", f.Name, "err:", err)
				failed++
				continue
			}
			if _, err := p.Run(cmd.Context(), local, metadata); err != nil {
				log.Println("skip file:", f.Name, "err:", err)
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, len(files))
		}
		log.Printf("Ingested %d files.", len(files))
		return nil
	},
}

func init() {
	driveCmd.Flags().StringVar(&driveToken, "token", "", "Google OAuth2 access token")
}
