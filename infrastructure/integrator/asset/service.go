// Package asset verifica se as imagens referenciadas pelas campanhas existem no storage
package asset

import (
	"context"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-manager-api/internal/config"
	"github.com/vfg2006/campaign-manager-api/internal/domain"
)

// Resolver responde se uma referência de imagem aponta para um objeto existente
type Resolver interface {
	Exists(ctx context.Context, ref string) (bool, error)
}

// HeadObjectAPI é o subconjunto do cliente S3 usado pelo resolver
type HeadObjectAPI interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

type S3Resolver struct {
	client        HeadObjectAPI
	bucket        string
	publicBaseURL string
}

// NewS3Resolver carrega a configuração padrão da AWS; com Endpoint preenchido o
// cliente usa path-style, o que permite apontar para um MinIO local
func NewS3Resolver(ctx context.Context, cfg config.Storage) (*S3Resolver, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, errors.Wrap(err, "erro ao carregar configuração da AWS")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3ResolverWithClient(client, cfg.Bucket, cfg.PublicBaseURL), nil
}

func NewS3ResolverWithClient(client HeadObjectAPI, bucket, publicBaseURL string) *S3Resolver {
	return &S3Resolver{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}
}

// Exists devolve false para referências fora do bucket ou objetos ausentes.
// Qualquer outra falha do S3 é transitória.
func (r *S3Resolver) Exists(ctx context.Context, ref string) (bool, error) {
	key, ok := r.objectKey(ref)
	if !ok {
		logrus.WithField("ad_image", ref).Debug("Referência de imagem fora do bucket configurado")
		return false, nil
	}

	_, err := r.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}

	if isNotFound(err) {
		return false, nil
	}

	return false, domain.NewTransientError(errors.Wrapf(err, "erro ao consultar objeto %s/%s", r.bucket, key))
}

func (r *S3Resolver) objectKey(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)

	if prefix := "s3://" + r.bucket + "/"; strings.HasPrefix(ref, prefix) {
		return nonEmpty(strings.TrimPrefix(ref, prefix))
	}

	if r.publicBaseURL != "" && strings.HasPrefix(ref, r.publicBaseURL+"/") {
		return nonEmpty(strings.TrimPrefix(ref, r.publicBaseURL+"/"))
	}

	u, err := url.Parse(ref)
	if err != nil || u.Host == "" {
		return "", false
	}

	// https://<bucket>.s3.<região>.amazonaws.com/<key>
	if strings.HasPrefix(u.Host, r.bucket+".s3.") && strings.HasSuffix(u.Host, ".amazonaws.com") {
		return nonEmpty(strings.TrimPrefix(u.Path, "/"))
	}

	return "", false
}

func nonEmpty(key string) (string, bool) {
	return key, key != ""
}

func isNotFound(err error) bool {
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}

	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}

	return false
}

// NoopResolver aceita qualquer referência; usado quando o storage está desabilitado
type NoopResolver struct{}

func (NoopResolver) Exists(_ context.Context, ref string) (bool, error) {
	return strings.TrimSpace(ref) != "", nil
}
