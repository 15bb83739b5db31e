package handler

import (
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"muru-backend/internal/apperr"
	"muru-backend/internal/storage"
)

// StorageHandler 파일 업로드 핸들러
type StorageHandler struct {
	uploader *storage.Uploader
	log      *logrus.Logger
}

// NewStorageHandler StorageHandler 생성
func NewStorageHandler(uploader *storage.Uploader, log *logrus.Logger) *StorageHandler {
	return &StorageHandler{uploader: uploader, log: log}
}

// UploadFile multipart "file" 필드를 저장하고 참조 경로 반환
func (h *StorageHandler) UploadFile(c *fiber.Ctx) error {
	f, closeFn, err := formFile(c, "file")
	if err != nil {
		return err
	}
	defer closeFn()

	up, err := h.uploader.Store(c.UserContext(), f)
	if err != nil {
		return err
	}

	h.log.WithFields(logrus.Fields{
		"path":     up.Path,
		"size":     up.Size,
		"provider": h.uploader.Provider().Name(),
	}).Info("file uploaded")

	return c.JSON(UploadResponse{
		FilePath:         up.Path,
		Path:             up.Path,
		FileName:         up.FileName,
		OriginalFileName: up.OriginalFileName,
		FileSize:         up.Size,
		FileType:         up.ContentType,
	})
}

// formFile multipart 파일을 storage.File로 변환. 반환된 closeFn은 반드시 호출
func formFile(c *fiber.Ctx, field string) (storage.File, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return storage.File{}, nil, apperr.Validation("No file uploaded")
	}
	return openHeader(fh)
}

func openHeader(fh *multipart.FileHeader) (storage.File, func(), error) {
	if fh.Size == 0 {
		return storage.File{}, nil, apperr.Validation("No file uploaded")
	}

	src, err := fh.Open()
	if err != nil {
		return storage.File{}, nil, apperr.Internal(err, "failed to open upload")
	}

	return storage.File{
		OriginalName: fh.Filename,
		ContentType:  fh.Header.Get(fiber.HeaderContentType),
		Size:         fh.Size,
		Body:         src,
	}, func() { src.Close() }, nil
}
