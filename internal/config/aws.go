package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// AWSConfig loads the shared AWS configuration. Static credentials are used
// when AWS_ACCESS_KEY_ID is set, as with LocalStack.
func (c *Config) AWSConfig(ctx context.Context) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(c.AWSRegion),
	}
	if c.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AWSAccessKeyID, c.AWSSecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return awsCfg, nil
}

// DynamoDBClient creates a DynamoDB client, pointed at DYNAMODB_ENDPOINT when set.
func (c *Config) DynamoDBClient(ctx context.Context) (*dynamodb.Client, error) {
	awsCfg, err := c.AWSConfig(ctx)
	if err != nil {
		return nil, err
	}
	return dynamodb.NewFromConfig(awsCfg, c.dynamoDBOptions()...), nil
}

func (c *Config) dynamoDBOptions() []func(*dynamodb.Options) {
	var opts []func(*dynamodb.Options)
	if c.DynamoDBEndpoint != "" {
		opts = append(opts, func(o *dynamodb.Options) {
			o.BaseEndpoint = aws.String(c.DynamoDBEndpoint)
		})
	}
	return opts
}
