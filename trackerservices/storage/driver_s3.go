package storage

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Config targets AWS when Endpoint is empty and any S3 compatible service
// (MinIO, R2) otherwise.
type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
}

func NewDriverS3(config S3Config) (Driver, error) {
	options := s3.Options{
		Region: config.Region,
		Credentials: aws.CredentialsProviderFunc(func(ctx context.Context) (aws.Credentials, error) {
			return aws.Credentials{
				AccessKeyID:     config.AccessKeyID,
				SecretAccessKey: config.AccessKeySecret,
			}, nil
		}),
	}

	if config.Endpoint != "" {
		options.BaseEndpoint = aws.String(config.Endpoint)
		options.UsePathStyle = true
		if options.Region == "" {
			options.Region = "auto"
		}
	}

	return &driverS3{
		client: s3.New(options),
		bucket: config.Bucket,
	}, nil
}

type driverS3 struct {
	client *s3.Client
	bucket string
}

func (driver *driverS3) Get(ctx context.Context, filePath string) (io.ReadCloser, error) {
	result, err := driver.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(driver.bucket),
		Key:    aws.String(filePath),
	})
	if err != nil {
		return nil, err
	}

	return result.Body, nil
}

func (driver *driverS3) Put(ctx context.Context, filePath string, payload io.Reader) error {
	_, err := driver.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(driver.bucket),
		Key:    aws.String(filePath),
		Body:   payload,
	})

	return err
}

func (driver *driverS3) Delete(ctx context.Context, filePath string) error {
	_, err := driver.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(driver.bucket),
		Key:    aws.String(filePath),
	})

	return err
}

func (driver *driverS3) IsReady(ctx context.Context) error {
	_, err := driver.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(driver.bucket),
	})

	return err
}

func (driver *driverS3) Exists(ctx context.Context, filePath string) (bool, error) {
	if _, err := driver.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(driver.bucket),
		Key:    aws.String(filePath),
	}); err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

func (driver *driverS3) PreSignedURL(ctx context.Context, filePath string, expiration time.Duration) (string, error) {
	presignClient := s3.NewPresignClient(driver.client, func(options *s3.PresignOptions) {
		options.Expires = expiration
	})

	request, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(driver.bucket),
		Key:    aws.String(filePath),
	})
	if err != nil {
		return "", err
	}

	return request.URL, nil
}

func (driver *driverS3) PublicLink(ctx context.Context, filePath string) (string, error) {
	options := driver.client.Options()
	if options.UsePathStyle {
		return *options.BaseEndpoint + "/" + driver.bucket + "/" + filePath, nil
	}

	endpoint, err := options.EndpointResolverV2.ResolveEndpoint(ctx, s3.EndpointParameters{
		Bucket: aws.String(driver.bucket),
		Key:    aws.String(filePath),
		Region: aws.String(options.Region),
	})
	if err != nil {
		return "", err
	}

	return endpoint.URI.String() + "/" + filePath, nil
}
