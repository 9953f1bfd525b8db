package tasks

import (
	"thinktrends.com/icsr/redis"
	"fmt"
)

type Client struct {
	Documents DocumentTasks
	Batches   BatchTasks
}

// NewClient is the preferred way of working with intake task state.
func NewClient() (Client, error) {
	docRedisClient, err := redis.NewClient(DocumentsDB)
	if err != nil {
		return Client{}, err
	}
	batchRedisClient, err := redis.NewClient(BatchesDB)
	if err != nil {
		return Client{}, err
	}
	return Client{
		Documents: DocumentTasks{client: docRedisClient},
		Batches:   BatchTasks{client: batchRedisClient},
	}, nil
}

func (client *Client) Close() {
	_ = client.Documents.client.Close()
	_ = client.Batches.client.Close()
}

func cachedPropertiesKey(redisKey string) string {
	return fmt.Sprintf("%s-cached-properties", redisKey)
}
