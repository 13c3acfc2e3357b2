package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"civiclens-be/models"
	"civiclens-be/services"
	"civiclens-be/storage"
)

// UploadController handles issue image uploads. Files go to the object store
// under {ownerId}/{issueId}_{index}.{ext}; only the public URLs are kept.
type UploadController struct {
	issues *services.IssueService
	bucket storage.ObjectStore
	logger *zap.SugaredLogger
}

// NewUploadController builds the controller.
func NewUploadController(issues *services.IssueService, bucket storage.ObjectStore, logger *zap.SugaredLogger) *UploadController {
	return &UploadController{issues: issues, bucket: bucket, logger: logger}
}

// Attach handles POST /api/issues/:id/images (multipart, field "images").
//
// Uploads run in submission order. If one fails, the URLs uploaded so far are
// still attached and the response flags the partial result: an issue without
// its full image set is an accepted state, not something to roll back.
func (uc *UploadController) Attach(c *gin.Context) {
	issueID, ok := issueIDParam(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	issue, err := uc.issues.Get(ctx, issueID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if issue.ReporterID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the reporter may attach images"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No images provided"})
		return
	}
	if len(files) > models.MaxIssueImages {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At most 3 images allowed"})
		return
	}

	urls := make([]string, 0, len(files))
	var uploadErr error
	for i, fh := range files {
		f, err := fh.Open()
		if err != nil {
			uploadErr = err
			break
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			uploadErr = err
			break
		}

		path := storage.ObjectPath(userID.Hex(), issueID.Hex(), i, fh.Filename)
		url, err := uc.bucket.Upload(ctx, path, data, fh.Header.Get("Content-Type"))
		if err != nil {
			uploadErr = err
			break
		}
		urls = append(urls, url)
	}

	if len(urls) > 0 {
		if err := uc.issues.AttachImages(ctx, issueID, urls); err != nil {
			respondServiceError(c, err)
			return
		}
	}

	if uploadErr != nil {
		uc.logger.Warnw("image upload incomplete",
			"issue_id", issueID.Hex(), "uploaded", len(urls), "requested", len(files), "error", uploadErr)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "some images failed to upload",
			"partial":    true,
			"image_urls": urls,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"image_urls": urls})
}
