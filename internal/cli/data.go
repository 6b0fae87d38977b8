package cli

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"workspace-registry-service/internal/adapters/primary/http/dto"
)

func newDataCmd() *cobra.Command {
	dataCmd := &cobra.Command{
		Use:   "data",
		Short: "Manage versioned data assets",
	}

	dataCmd.AddCommand(newDataRegisterCmd(), newDataListCmd())
	return dataCmd
}

func newDataRegisterCmd() *cobra.Command {
	registerCmd := &cobra.Command{
		Use:   "register <asset-name>",
		Short: "Register a new version of a data asset",
		Long: `Registers a version of a named data asset. The asset is created on first
use. The checksum comes from --checksum, or is computed from --file.
Re-registering an identical checksum is idempotent.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := newCommandContext(cmd)
			if err != nil {
				return err
			}
			if err := cc.requireProject(); err != nil {
				return err
			}

			name := args[0]
			uri, _ := cmd.Flags().GetString("uri")
			checksum, _ := cmd.Flags().GetString("checksum")
			file, _ := cmd.Flags().GetString("file")
			kind, _ := cmd.Flags().GetString("kind")
			format, _ := cmd.Flags().GetString("format")
			description, _ := cmd.Flags().GetString("description")

			var sizeBytes int64
			if file != "" {
				checksum, sizeBytes, err = checksumFile(file)
				if err != nil {
					return err
				}
			}
			if checksum == "" {
				return fmt.Errorf("a checksum is required: pass --checksum or --file")
			}

			asset, err := cc.Client.GetDataAssetByName(cmd.Context(), name)
			if err != nil {
				apiErr, ok := err.(*apiError)
				if !ok || apiErr.Status != http.StatusNotFound {
					return err
				}
				asset, err = cc.Client.CreateDataAsset(cmd.Context(), dto.CreateDataAssetRequest{
					Name:        name,
					Kind:        kind,
					Description: description,
				})
				if err != nil {
					return err
				}
				log.WithField("asset", name).Info("created data asset")
			}

			version, err := cc.Client.RegisterVersion(cmd.Context(), asset.ID.String(), dto.RegisterVersionRequest{
				URI:         uri,
				Checksum:    checksum,
				SizeBytes:   sizeBytes,
				Format:      format,
				Description: description,
				CreatedBy:   cc.Config.CreatedBy,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s@%d  %s  %s\n", name, version.Version, version.Checksum[:12], version.URI)
			return nil
		},
	}

	registerCmd.Flags().String("uri", "", "Storage URI of the data (required)")
	registerCmd.Flags().String("checksum", "", "SHA-256 checksum of the data")
	registerCmd.Flags().String("file", "", "Local file to compute the checksum from")
	registerCmd.Flags().String("kind", "uri_folder", "Asset kind when creating (uri_file, uri_folder, mltable)")
	registerCmd.Flags().String("format", "", "Data format label (csv, parquet, ...)")
	registerCmd.Flags().String("description", "", "Asset/version description")
	_ = registerCmd.MarkFlagRequired("uri")

	return registerCmd
}

func newDataListCmd() *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List data assets in the project",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := newCommandContext(cmd)
			if err != nil {
				return err
			}
			if err := cc.requireProject(); err != nil {
				return err
			}

			limit, _ := cmd.Flags().GetInt("limit")
			resp, err := cc.Client.ListDataAssets(cmd.Context(), limit, 0)
			if err != nil {
				return err
			}

			for _, asset := range resp.Items {
				latest := "-"
				if asset.LatestVersion != nil {
					latest = fmt.Sprintf("v%d", asset.LatestVersion.Version)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-30s %-10s %-9s %s\n", asset.Name, asset.Kind, asset.State, latest)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d assets\n", len(resp.Items), resp.Total)
			return nil
		},
	}

	listCmd.Flags().Int("limit", 50, "Maximum assets to list")
	return listCmd
}

func checksumFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", 0, fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}
