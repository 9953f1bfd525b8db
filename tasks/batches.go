package tasks

import (
	"thinktrends.com/icsr/redis"
)

const BatchesDB redis.DB = 1

// BatchCounts is the cross-document summary: a plain reduction over the
// per-document dispositions, owned by the orchestration layer, never by the
// pipeline itself.
type BatchCounts struct {
	Accepted             int `json:"accepted"`
	AcceptedWithFindings int `json:"accepted_with_findings"`
	Rejected             int `json:"rejected"`
}

func (c BatchCounts) Total() int {
	return c.Accepted + c.AcceptedWithFindings + c.Rejected
}

type BatchTask struct {
	UserCanceled       bool        `json:"user_canceled"`
	StopBatchOnFailure bool        `json:"stop_batch_on_failure"`
	FailedDocuments    []string    `json:"failed_documents"`
	Counts             BatchCounts `json:"counts"`
}

type BatchTasks struct {
	client redis.Client
}

func (tasks BatchTasks) GetCached(redisKey string) (*BatchTask, error) {
	var task BatchTask
	key := cachedPropertiesKey(redisKey)
	err := tasks.client.GetDocument(key, &task)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (tasks BatchTasks) Update(redisKey string, updateFunc func(task *BatchTask)) error {
	var task BatchTask
	return tasks.client.UpdateDocument(redisKey, &task, func() {
		updateFunc(&task)
	})
}
