package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// File is a remote document reference.
type File struct {
	ID   string
	Name string
}

// Drive lists and downloads PDFs from a Google Drive folder.
type Drive struct {
	svc *drive.Service
}

// NewDrive builds a Drive client. Credentials come from GOOGLE_CLIENT_ID and
// GOOGLE_CLIENT_SECRET; accessToken is a user token obtained out of band.
func NewDrive(ctx context.Context, accessToken string) (*Drive, error) {
	cfg := &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		Scopes:       []string{drive.DriveReadonlyScope},
		Endpoint:     google.Endpoint,
	}
	client := cfg.Client(ctx, &oauth2.Token{AccessToken: accessToken})

	svc, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}
	return &Drive{svc: svc}, nil
}

// ListPDFs returns every non-trashed PDF in the folder.
func (d *Drive) ListPDFs(ctx context.Context, folderID string) ([]File, error) {
	query := fmt.Sprintf("'%s' in parents and mimeType='application/pdf' and trashed=false", folderID)

	var out []File
	pageToken := ""
	for {
		call := d.svc.Files.List().
			Q(query).
			Fields("nextPageToken, files(id, name)").
			PageSize(100).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		list, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list folder %s: %w", folderID, err)
		}
		for _, f := range list.Files {
			out = append(out, File{ID: f.Id, Name: f.Name})
		}
		if list.NextPageToken == "" {
			break
		}
		pageToken = list.NextPageToken
	}
	return out, nil
}

// Download fetches one file into dstDir and returns the local path.
func (d *Drive) Download(ctx context.Context, f File, dstDir string) (string, error) {
	resp, err := d.svc.Files.Get(f.ID).Context(ctx).Download()
	if err != nil {
		return "", fmt.Errorf("failed to download %s: %w", f.Name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download %s: status %d", f.Name, resp.StatusCode)
	}

	dst := filepath.Join(dstDir, filepath.Base(f.Name))
	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", err
	}
	return dst, nil
}
