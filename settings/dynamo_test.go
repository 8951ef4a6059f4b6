package settings

import (
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDynamo struct {
	dynamodbiface.DynamoDBAPI
	items map[string]map[string]*dynamodb.AttributeValue
	err   error
}

func (f *fakeDynamo) GetItem(in *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.GetItemOutput{Item: f.items[*in.Key["PK"].S]}, nil
}

func (f *fakeDynamo) PutItem(in *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.items == nil {
		f.items = make(map[string]map[string]*dynamodb.AttributeValue)
	}
	f.items[*in.Item["PK"].S] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func TestDynamoStoreRoundTrip(t *testing.T) {
	client := &fakeDynamo{}
	s := NewDynamoStoreWithClient(client, "settings")

	names, found, err := s.LoadDevices()
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, names)

	require.NoError(t, s.SaveDevices([]string{"B", "A"}))
	names, found, err = s.LoadDevices()
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"B", "A"}, names)
	assert.Equal(t, aws.String("midi devices"), client.items["midi devices"]["PK"].S)
}

func TestDynamoStoreErrors(t *testing.T) {
	s := NewDynamoStoreWithClient(&fakeDynamo{err: errors.New("throttled")}, "settings")

	_, _, err := s.LoadDevices()
	assert.Error(t, err)
	assert.Error(t, s.SaveDevices([]string{"A"}))
}
