package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/chai2010/webp"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

// Largura máxima das imagens de modalidade exibidas no portal
const maxWidth = 800

// S3API é o recorte do cliente S3 usado pelo Storage.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Storage guarda imagens de modalidade no S3, sempre re-encodadas em
// webp. Com bucket vazio o armazenamento fica desligado.
type Storage struct {
	bucket  string
	baseURL string
	client  S3API
	logger  *slog.Logger
}

func NewStorage(client S3API, bucket, baseURL string, logger *slog.Logger) *Storage {
	if logger == nil {
		logger = slog.Default()
	}
	return &Storage{
		bucket:  bucket,
		baseURL: baseURL,
		client:  client,
		logger:  logger,
	}
}

// NewS3Client monta o cliente com credenciais estáticas do ambiente.
func NewS3Client(region, accessKey, secretKey string) *s3.Client {
	return s3.New(s3.Options{
		Region: region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		),
	})
}

func (s *Storage) Enabled() bool {
	return s != nil && s.bucket != "" && s.client != nil
}

// UploadModalityImage decodifica, redimensiona, converte para webp e
// sobe para o S3. Retorna a URL pública.
func (s *Storage) UploadModalityImage(
	ctx context.Context,
	accountID uuid.UUID,
	modalityID uuid.UUID,
	r io.Reader,
) (string, error) {

	if !s.Enabled() {
		return "", fmt.Errorf("media: storage not configured")
	}

	src, _, err := image.Decode(r)
	if err != nil {
		return "", fmt.Errorf("media: decode image: %w", err)
	}

	src = scaleDown(src)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, src, &webp.Options{Quality: 80}); err != nil {
		return "", fmt.Errorf("media: encode webp: %w", err)
	}

	key := fmt.Sprintf("modalities/%s/%s.webp", accountID, modalityID)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("image/webp"),
	})
	if err != nil {
		return "", fmt.Errorf("media: s3 put %s: %w", key, err)
	}

	s.logger.Info("modality image uploaded",
		"modality_id", modalityID,
		"s3_key", key,
		"bytes", buf.Len(),
	)

	return s.baseURL + "/" + key, nil
}

func scaleDown(src image.Image) image.Image {
	bounds := src.Bounds()
	if bounds.Dx() <= maxWidth {
		return src
	}

	h := bounds.Dy() * maxWidth / bounds.Dx()
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}
