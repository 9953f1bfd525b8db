package worker

import (
	"thinktrends.com/icsr/pipeline"
	"thinktrends.com/icsr/tasks"
	"fmt"
)

type redisTransactions interface {
	getDocumentTask(redisKey string) (*tasks.DocumentTask, error)
	getBatchTask(task *Task) (*tasks.BatchTask, error)
	onTaskStarted(task *Task) error
	onTaskCancelled(task *Task, errorMessages ...string) error
	onTaskExceededRetries(task *Task, maxRetries int) error
	onTaskFailedWithError(task *Task, err error) error
	onTaskComplete(task *Task, result pipeline.Result) error
	close()
}

type redisClientWrapper struct {
	tasksClient *tasks.Client
}

func (wrapper *redisClientWrapper) close() {
	wrapper.tasksClient.Close()
}

func (wrapper *redisClientWrapper) onTaskStarted(task *Task) error {
	err := wrapper.tasksClient.Documents.Update(task.redisKey, func(task *tasks.DocumentTask) {
		task.TaskStatuses.Intake.Status = tasks.TaskStatusStarted
		task.TaskStatuses.Intake.Attempts += 1
		task.TaskStatuses.Intake.StartedAt = getFormattedNow()
		task.TaskStatuses.Intake.CompletedAt = nil
	})
	return err
}

func (wrapper *redisClientWrapper) onTaskCancelled(task *Task, errorMessages ...string) error {
	err := wrapper.tasksClient.Documents.Update(task.redisKey, func(docTask *tasks.DocumentTask) {
		docTask.TaskStatuses.Intake.Status = tasks.TaskStatusCanceled
		docTask.TaskStatuses.Intake.StartedAt = getFormattedNow()
		docTask.TaskStatuses.Intake.CompletedAt = getFormattedNow()
		docTask.TaskStatuses.Intake.Attempts += 1
		docTask.TaskStatuses.Intake.ErrorMessages = append(
			docTask.TaskStatuses.Intake.ErrorMessages,
			errorMessages...,
		)
	})
	return err
}

func (wrapper *redisClientWrapper) onTaskExceededRetries(task *Task, maxRetries int) error {
	err := wrapper.tasksClient.Batches.Update(task.docTask.BatchID, func(batchTask *tasks.BatchTask) {
		batchTask.FailedDocuments = append(batchTask.FailedDocuments, task.redisKey)
	})
	if err != nil {
		return err
	}
	err = wrapper.tasksClient.Documents.Update(task.redisKey, func(docTask *tasks.DocumentTask) {
		docTask.TaskStatuses.Intake.Status = tasks.TaskStatusCompletedFailure
		docTask.TaskStatuses.Intake.StartedAt = getFormattedNow()
		docTask.TaskStatuses.Intake.CompletedAt = getFormattedNow()
		docTask.TaskStatuses.Intake.Attempts += 1
		docTask.TaskStatuses.Intake.ErrorMessages = append(
			docTask.TaskStatuses.Intake.ErrorMessages,
			fmt.Sprintf(
				"Task has exceeded retries. (Attempts: %d, max retries: %d )",
				docTask.TaskStatuses.Intake.Attempts,
				maxRetries,
			),
		)
	})
	return err
}

func (wrapper *redisClientWrapper) onTaskFailedWithError(task *Task, err error) error {
	return wrapper.tasksClient.Documents.Update(task.redisKey, func(docTask *tasks.DocumentTask) {
		docTask.TaskStatuses.Intake.Status = tasks.TaskStatusFailed
		docTask.TaskStatuses.Intake.CompletedAt = getFormattedNow()
		docTask.TaskStatuses.Intake.ErrorMessages = append(docTask.TaskStatuses.Intake.ErrorMessages, err.Error())
	})
}

func (wrapper *redisClientWrapper) onTaskComplete(task *Task, result pipeline.Result) error {
	err := wrapper.tasksClient.Documents.Update(task.redisKey, func(docTask *tasks.DocumentTask) {
		if !docTask.TaskStatuses.Intake.Status.Complete() {
			docTask.TaskStatuses.Intake.Status = tasks.TaskStatusCompletedSuccess
		}
		docTask.TaskStatuses.Intake.CompletedAt = getFormattedNow()
		docTask.TaskStatuses.Intake.ResultsFileKey = getResultsFileKey(task)
		docTask.TaskStatuses.Intake.Disposition = string(result.Disposition)
	})
	if err != nil {
		return err
	}
	// The batch summary is a plain reduction over per-document dispositions.
	return wrapper.tasksClient.Batches.Update(task.docTask.BatchID, func(batchTask *tasks.BatchTask) {
		switch result.Disposition {
		case pipeline.DispositionAccepted:
			batchTask.Counts.Accepted += 1
		case pipeline.DispositionAcceptedWithFindings:
			batchTask.Counts.AcceptedWithFindings += 1
		case pipeline.DispositionRejected:
			batchTask.Counts.Rejected += 1
		}
	})
}

func (wrapper *redisClientWrapper) getDocumentTask(redisKey string) (*tasks.DocumentTask, error) {
	return wrapper.tasksClient.Documents.Get(redisKey)
}

func (wrapper *redisClientWrapper) getBatchTask(task *Task) (*tasks.BatchTask, error) {
	return wrapper.tasksClient.Batches.GetCached(task.docTask.BatchID)
}
