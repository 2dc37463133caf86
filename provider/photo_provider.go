package provider

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/tnqbao/gau-recipe-service/entity"
)

// PhotoStore is the soft-delete store for photo metadata rows. Lookups return
// (nil, nil) when no active row matches.
type PhotoStore interface {
	Create(ctx context.Context, photo *entity.Photo) error
	SetFilename(ctx context.Context, id uint, filename string) error
	FindActiveByID(ctx context.Context, id uint) (*entity.Photo, error)
	FlagDeleted(ctx context.Context, id uint) (bool, error)
}

// BlobStore holds the encoded photo bytes, keyed by filename. Implemented by
// infra.MinioClient.
type BlobStore interface {
	PutObject(ctx context.Context, key string, data []byte, contentType string) error
	GetObject(ctx context.Context, key string) ([]byte, error)
}

type PhotoOptions struct {
	MaxUploadBytes    int64
	CompressThreshold int64
	JPEGQuality       int
	MaxDimension      int
}

type PhotoBlob struct {
	Photo entity.Photo
	Data  []byte
}

type PhotoProvider struct {
	store PhotoStore
	blobs BlobStore
	opts  PhotoOptions
}

func NewPhotoProvider(store PhotoStore, blobs BlobStore, opts PhotoOptions) *PhotoProvider {
	if store == nil || blobs == nil {
		panic("photo store and blob store are required")
	}
	if opts.MaxUploadBytes == 0 {
		opts.MaxUploadBytes = 5 << 20
	}
	if opts.CompressThreshold == 0 {
		opts.CompressThreshold = 2 << 20
	}
	if opts.JPEGQuality == 0 {
		opts.JPEGQuality = 85
	}
	return &PhotoProvider{store: store, blobs: blobs, opts: opts}
}

// Store bounds the stored image size. Uploads at or below the compression
// threshold keep their original bytes and detected format; larger uploads are
// decoded, flattened to plain RGB (alpha is discarded for good) and re-encoded
// as JPEG. The bound is best effort: a pathological image that re-encodes
// larger is stored as re-encoded anyway. The filename is derived from the
// store-assigned primary id, so it is unique by construction; no sequence
// scan is involved.
func (p *PhotoProvider) Store(ctx context.Context, raw []byte, originalName, declaredContentType string) (*entity.Photo, error) {
	switch declaredContentType {
	case "image/jpeg", "image/png":
	default:
		return nil, unsupportedMediaErrorf("content type %q is not allowed", declaredContentType)
	}
	if int64(len(raw)) > p.opts.MaxUploadBytes {
		return nil, unsupportedMediaErrorf("upload of %d bytes exceeds the %d byte limit", len(raw), p.opts.MaxUploadBytes)
	}

	data, format, err := p.normalize(raw)
	if err != nil {
		return nil, err
	}

	photo := &entity.Photo{
		OriginName:  originalName,
		ContentType: "image/" + format,
		FileSize:    int64(len(data)),
	}
	if err := p.store.Create(ctx, photo); err != nil {
		return nil, storeErr(err)
	}

	photo.Filename = photoFilename(photo.ID, format)
	if err := p.store.SetFilename(ctx, photo.ID, photo.Filename); err != nil {
		return nil, storeErr(err)
	}
	if err := p.blobs.PutObject(ctx, photo.Filename, data, photo.ContentType); err != nil {
		// keep the row from ever becoming readable
		_, _ = p.store.FlagDeleted(ctx, photo.ID)
		return nil, storeErr(err)
	}
	return photo, nil
}

func (p *PhotoProvider) Get(ctx context.Context, id uint) (*PhotoBlob, error) {
	photo, err := p.store.FindActiveByID(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	if photo == nil {
		return nil, ErrNotFound
	}
	data, err := p.blobs.GetObject(ctx, photo.Filename)
	if err != nil {
		return nil, storeErr(err)
	}
	return &PhotoBlob{Photo: *photo, Data: data}, nil
}

// Delete soft-flags the metadata row; the blob itself stays in the object
// store, unreachable through this API.
func (p *PhotoProvider) Delete(ctx context.Context, id uint) error {
	matched, err := p.store.FlagDeleted(ctx, id)
	if err != nil {
		return storeErr(err)
	}
	if !matched {
		return ErrNotFound
	}
	return nil
}

// normalize sniffs the real format by decoding, never trusting the declared
// content type, and re-encodes oversized images.
func (p *PhotoProvider) normalize(raw []byte) ([]byte, string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, "", unsupportedMediaErrorf("image could not be decoded: %v", err)
	}
	if format != "jpeg" && format != "png" {
		return nil, "", unsupportedMediaErrorf("image format %q is not allowed", format)
	}
	if int64(len(raw)) <= p.opts.CompressThreshold {
		return raw, format, nil
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", unsupportedMediaErrorf("image could not be decoded: %v", err)
	}

	flat := flattenToWhite(img)
	if p.opts.MaxDimension > 0 {
		bounds := flat.Bounds()
		if bounds.Dx() > p.opts.MaxDimension || bounds.Dy() > p.opts.MaxDimension {
			flat = imaging.Fit(flat, p.opts.MaxDimension, p.opts.MaxDimension, imaging.Lanczos)
		}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, flat, imaging.JPEG, imaging.JPEGQuality(p.opts.JPEGQuality)); err != nil {
		return nil, "", fmt.Errorf("re-encoding image: %w", err)
	}
	return buf.Bytes(), "jpeg", nil
}

// flattenToWhite composites the image over an opaque white background,
// discarding any alpha channel or palette transparency.
func flattenToWhite(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	background := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	return imaging.Overlay(background, img, image.Pt(0, 0), 1.0)
}

func photoFilename(id uint, format string) string {
	ext := ".jpg"
	if format == "png" {
		ext = ".png"
	}
	return fmt.Sprintf("%08d%s", id, ext)
}
