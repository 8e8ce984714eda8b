package services

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/albaranes-api/internal/auth"
	"github.com/yukikurage/albaranes-api/internal/constants"
	"github.com/yukikurage/albaranes-api/internal/document"
	"github.com/yukikurage/albaranes-api/internal/models"
	"github.com/yukikurage/albaranes-api/internal/repository"
	"github.com/yukikurage/albaranes-api/internal/storage"
)

// SigningService finalizes delivery notes and serves their documents.
type SigningService struct {
	albaranes   *AlbaranService
	albaranRepo repository.AlbaranRepository
	store       storage.Store
	artifacts   *storage.Artifacts
}

// NewSigningService creates a new SigningService
func NewSigningService(albaranes *AlbaranService, albaranRepo repository.AlbaranRepository, store storage.Store, artifacts *storage.Artifacts) *SigningService {
	return &SigningService{
		albaranes:   albaranes,
		albaranRepo: albaranRepo,
		store:       store,
		artifacts:   artifacts,
	}
}

// SignatureUpload is a signature image received from the client.
type SignatureUpload struct {
	Data     []byte
	Filename string
	MimeType string
}

// SignResult holds the durable references recorded on a signed note.
type SignResult struct {
	Sign string
	PDF  string
}

// PDFDocument is a rendered or fetched document ready to send.
type PDFDocument struct {
	Filename string
	Data     []byte
	Stored   bool
}

// Sign embeds the signature into the final document, uploads both and records the two
// references in a single update. Nothing is persisted unless every upload succeeded.
// A concurrent second attempt on the same note fails with a conflict.
func (s *SigningService) Sign(ctx context.Context, id uint64, p auth.Principal, upload SignatureUpload) (result *SignResult, err error) {
	albaran, err := s.albaranes.findOwned(id, p, "Client", "Project", "User")
	if err != nil {
		return nil, err
	}
	if len(upload.Data) == 0 {
		return nil, ErrNoSignatureFile
	}

	mimeType := upload.MimeType
	if mimeType == "" {
		mimeType = storage.ContentType(upload.Filename)
	}
	image, err := document.NewSignatureImage(upload.Data, mimeType)
	if err != nil {
		return nil, ErrUnsupportedImage
	}

	if albaran.IsSigned() {
		return nil, ErrAlbaranSigned
	}
	if err := s.albaranRepo.ClaimSigning(id, p.UserID); err != nil {
		if errors.Is(err, repository.ErrStaleAlbaran) {
			return nil, ErrSignInProgress
		}
		return nil, fmt.Errorf("failed to claim albaran: %w", err)
	}

	sigName := fmt.Sprintf(constants.SignatureFilePattern, id, signatureExt(image))
	pdfName := fmt.Sprintf(constants.PDFFilePattern, id)
	ownsArtifacts := true
	defer func() {
		if err == nil {
			return
		}
		if ownsArtifacts {
			if rerr := s.artifacts.Remove(sigName, pdfName); rerr != nil {
				logrus.WithError(rerr).WithField("albaran_id", id).Error("failed to remove artifacts")
			}
		}
		if rerr := s.albaranRepo.ReleaseSigning(id); rerr != nil {
			logrus.WithError(rerr).WithField("albaran_id", id).Error("failed to release signing claim")
		}
	}()

	if _, err := s.artifacts.Save(sigName, upload.Data); err != nil {
		return nil, storageError("save signature", err)
	}
	signRef, err := s.store.Upload(ctx, upload.Data, sigName)
	if err != nil {
		return nil, storageError("upload signature", err)
	}

	albaran.Sign = &signRef
	albaran.Pending = false

	pdfBytes, err := document.Render(snapshotOf(albaran), image)
	if err != nil {
		return nil, &domainError{kind: ErrValidation, msg: ErrUnreadableSignature.msg, cause: err}
	}
	if _, err := s.artifacts.Save(pdfName, pdfBytes); err != nil {
		return nil, storageError("save document", err)
	}
	pdfRef, err := s.store.Upload(ctx, pdfBytes, pdfName)
	if err != nil {
		return nil, storageError("upload document", err)
	}

	if err := s.albaranRepo.CompleteSigning(id, signRef, pdfRef); err != nil {
		if errors.Is(err, repository.ErrStaleAlbaran) {
			// An expired claim was taken over; the files now belong to that request.
			ownsArtifacts = false
			return nil, ErrAlbaranChanged
		}
		return nil, fmt.Errorf("failed to record signature: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"albaran_id": id,
		"sign":       signRef,
		"pdf":        pdfRef,
	}).Info("albaran signed")

	return &SignResult{Sign: signRef, PDF: pdfRef}, nil
}

// FetchOrGeneratePDF returns the stored document of a signed note without uploading anything.
// Unsigned notes are rendered from their current state and left untouched.
func (s *SigningService) FetchOrGeneratePDF(ctx context.Context, id uint64, p auth.Principal) (*PDFDocument, error) {
	albaran, err := s.albaranes.findOwned(id, p, "Client", "Project", "User")
	if err != nil {
		return nil, err
	}
	filename := fmt.Sprintf(constants.PDFFilePattern, id)

	if albaran.IsSigned() && albaran.PDF != nil {
		data, err := s.store.Fetch(ctx, *albaran.PDF)
		if err != nil {
			return nil, storageError("fetch document", err)
		}
		return &PDFDocument{Filename: filename, Data: data, Stored: true}, nil
	}

	data, err := document.Render(snapshotOf(albaran), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to render albaran: %w", err)
	}
	return &PDFDocument{Filename: filename, Data: data}, nil
}

// ArtifactPath returns the local copy of a signed note's signature or document.
// name must be one of the files the signing flow writes for id.
func (s *SigningService) ArtifactPath(id uint64, p auth.Principal, name string) (string, error) {
	albaran, err := s.albaranes.findOwned(id, p)
	if err != nil {
		return "", err
	}
	if !albaran.IsSigned() {
		return "", ErrArtifactNotFound
	}
	path, err := s.artifacts.Path(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrArtifactNotFound
		}
		return "", storageError("read artifact", err)
	}
	return path, nil
}

func snapshotOf(a *models.Albaran) document.Snapshot {
	return document.Snapshot{
		Albaran: *a,
		Client:  a.Client,
		Project: a.Project,
		Owner:   a.User,
	}
}

func signatureExt(image *document.SignatureImage) string {
	if image.Type == "PNG" {
		return ".png"
	}
	return ".jpg"
}
