package settings

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/pkg/errors"

	"github.com/jsphweid/tonalpalette/constants"
)

// DynamoStore keeps settings as items of a DynamoDB table keyed by "PK". The
// device list lives in the "Devices" list attribute of the item whose PK is
// "midi devices".
type DynamoStore struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

func NewDynamoStore(endpoint, table string) (*DynamoStore, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String("localhost"),
		Endpoint: aws.String(endpoint),
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not create a new DynamoDB session")
	}
	return &DynamoStore{client: dynamodb.New(sess), table: table}, nil
}

func NewDynamoStoreWithClient(client dynamodbiface.DynamoDBAPI, table string) *DynamoStore {
	return &DynamoStore{client: client, table: table}
}

func (d *DynamoStore) key() map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		"PK": {S: aws.String(constants.DevicesSettingKey)},
	}
}

func (d *DynamoStore) LoadDevices() ([]string, bool, error) {
	out, err := d.client.GetItem(&dynamodb.GetItemInput{
		TableName:      aws.String(d.table),
		Key:            d.key(),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, false, errors.Wrap(err, "error from DynamoDB")
	}
	if out.Item == nil {
		return nil, false, nil
	}
	attr, ok := out.Item["Devices"]
	if !ok {
		return nil, false, nil
	}
	names := make([]string, 0, len(attr.L))
	for _, v := range attr.L {
		if v.S != nil {
			names = append(names, *v.S)
		}
	}
	return names, true, nil
}

func (d *DynamoStore) SaveDevices(names []string) error {
	list := make([]*dynamodb.AttributeValue, 0, len(names))
	for _, name := range names {
		list = append(list, &dynamodb.AttributeValue{S: aws.String(name)})
	}
	item := d.key()
	item["Devices"] = &dynamodb.AttributeValue{L: list}

	_, err := d.client.PutItem(&dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item:      item,
	})
	return errors.Wrap(err, "error from DynamoDB")
}
