package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/elliotchance/phpserialize"

	"github.com/rcliao/wp-donor/internal/model"
)

// Meta keys WordPress uses for featured images.
const (
	metaThumbnailID        = "_thumbnail_id"
	metaAttachedFile       = "_wp_attached_file"
	metaAttachmentMetadata = "_wp_attachment_metadata"
)

// AttachmentImageURL resolves the featured image of postID in the given
// size. When the attachment has no rendition of that size the full image
// URL is returned. Posts without a usable thumbnail yield "".
func (s *SQLiteStore) AttachmentImageURL(ctx context.Context, postID int64, size string) (string, error) {
	if !model.ValidSizes[size] {
		return "", fmt.Errorf("invalid image size %q", size)
	}

	raw, err := s.postMeta(ctx, postID, metaThumbnailID)
	if err != nil {
		return "", fmt.Errorf("thumbnail id: %w", err)
	}
	thumbID, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || thumbID <= 0 {
		return "", nil
	}

	fullURL, err := s.attachmentURL(ctx, thumbID)
	if err != nil || fullURL == "" {
		return "", err
	}

	if size != model.SizeFull {
		meta, err := s.postMeta(ctx, thumbID, metaAttachmentMetadata)
		if err != nil {
			return "", fmt.Errorf("attachment metadata: %w", err)
		}
		if file := sizedFile(meta, size); file != "" {
			fullURL = fullURL[:strings.LastIndex(fullURL, "/")+1] + file
		}
	}

	return escURL(fullURL), nil
}

// attachmentURL returns the full-size URL of an attachment, "" when the
// attachment does not exist.
func (s *SQLiteStore) attachmentURL(ctx context.Context, id int64) (string, error) {
	var postType, guid string
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT post_type, guid FROM %s WHERE ID = ?`, s.table("posts")), id).Scan(&postType, &guid)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("attachment %d: %w", id, err)
	}
	if postType != TypeAttachment {
		return "", nil
	}

	file, err := s.postMeta(ctx, id, metaAttachedFile)
	if err != nil {
		return "", fmt.Errorf("attached file: %w", err)
	}
	if file == "" {
		return guid, nil
	}
	if strings.HasPrefix(file, "http://") || strings.HasPrefix(file, "https://") {
		return file, nil
	}

	base, err := s.uploadsBaseURL(ctx)
	if err != nil {
		return "", err
	}
	return base + "/" + strings.TrimLeft(file, "/"), nil
}

// uploadsBaseURL mirrors wp_upload_dir(): upload_url_path when set,
// otherwise <siteurl>/wp-content/uploads.
func (s *SQLiteStore) uploadsBaseURL(ctx context.Context) (string, error) {
	if s.siteURL == "" {
		if p, err := s.option(ctx, "upload_url_path"); err != nil {
			return "", fmt.Errorf("upload_url_path: %w", err)
		} else if p != "" {
			return strings.TrimRight(p, "/"), nil
		}
	}

	site := s.siteURL
	if site == "" {
		v, err := s.option(ctx, "siteurl")
		if err != nil {
			return "", fmt.Errorf("siteurl: %w", err)
		}
		site = strings.TrimRight(v, "/")
	}
	return site + "/wp-content/uploads", nil
}

// sizedFile extracts sizes[size].file from serialized attachment metadata.
func sizedFile(serialized, size string) string {
	if serialized == "" {
		return ""
	}
	meta, err := phpserialize.UnmarshalAssociativeArray([]byte(serialized))
	if err != nil {
		return ""
	}
	sizes, _ := meta["sizes"].(map[interface{}]interface{})
	entry, _ := sizes[size].(map[interface{}]interface{})
	file, _ := entry["file"].(string)
	if file == "" {
		return ""
	}
	return path.Base(file)
}

// escURL keeps only well-formed http(s) URLs, re-encoding the path.
func escURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}
