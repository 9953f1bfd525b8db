package worker

import (
	"thinktrends.com/icsr/pipeline"
	"thinktrends.com/icsr/tasks"
	"thinktrends.com/icsr/utils"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
)

type Message struct {
	WorkType string `json:"work_type"`
	RedisKey string `json:"redis_key"`
	Sender   string `json:"sender"`
	Version  string `json:"version"`
}

type Task struct {
	delivery     *amqp.Delivery
	docTask      *tasks.DocumentTask
	message      *Message
	redisKey     string
	intakeLogger *zerolog.Logger
}

func (worker *Worker) processMessage(delivery *amqp.Delivery) {
	task, err := worker.createTask(delivery)
	rejectLogger := worker.intakeLogger.With().Str("message_id", delivery.MessageId).Logger()
	if err != nil {
		worker.intakeLogger.Err(err).
			Str("message_id", delivery.MessageId).
			Str("tid", string(delivery.Body)).
			Msg("Failed to create task for delivery")
		worker.rmq.rejectDelivery(delivery, &rejectLogger)
		return
	}
	if err = worker.processTask(task); err != nil {
		worker.rmq.rejectDelivery(delivery, &rejectLogger)
		return
	}
	if err = worker.rmq.pingSequencer(task, *task.message); err != nil {
		task.intakeLogger.Err(err).Msg("Got error while sending message to sequencer queue")
		worker.rmq.rejectDelivery(delivery, &rejectLogger)
		return
	}
	if err = worker.rmq.acknowledgeDelivery(delivery); err != nil {
		task.intakeLogger.Err(err).Msg("Failed to acknowledge delivery")
	}
	task.intakeLogger.Info().Msg("Finished processing RMQ message")
}

func (worker *Worker) createTask(delivery *amqp.Delivery) (*Task, error) {
	var message Message
	err := json.Unmarshal(delivery.Body, &message)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal message, got error %w", err)
	}
	docTask, err := worker.redis.getDocumentTask(message.RedisKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query document task for message, got error %w", err)
	}
	taskLogger := worker.intakeLogger.With().Str("tid", message.RedisKey).Logger()
	task := Task{
		delivery:     delivery,
		docTask:      docTask,
		redisKey:     message.RedisKey,
		message:      &message,
		intakeLogger: &taskLogger,
	}
	return &task, nil
}

func (worker *Worker) processTask(task *Task) error {
	shouldPerform, err := worker.shouldPerformTask(task)
	if err != nil {
		task.intakeLogger.Err(err).
			Msg("Got error while trying to decide whether to run task")
		return err
	}
	if !shouldPerform {
		return nil
	}
	if err = worker.redis.onTaskStarted(task); err != nil {
		task.intakeLogger.Err(err).Msg("Failed to update task info")
		return fmt.Errorf("failed to update IntakeTaskInfo: %w", err)
	}
	result, err := worker.runPipeline(task)
	if err != nil {
		task.intakeLogger.Err(err).Msg("Got error while running pipeline")
		if err = worker.redis.onTaskFailedWithError(task, err); err != nil {
			return err
		}
		return nil
	}
	task.intakeLogger.Info().
		Str("disposition", string(result.Disposition)).
		Msg("Saved results, marking task as complete")
	if err = worker.redis.onTaskComplete(task, result); err != nil {
		task.intakeLogger.Err(err).Msg("Got error while trying to mark task as complete")
		return err
	}
	return nil
}

func (worker *Worker) runPipeline(task *Task) (result pipeline.Result, err error) {
	defer utils.RecoverWithError(&err)
	task.intakeLogger.Info().Msgf("Processing message from RMQ, attempt # %d", task.docTask.TaskStatuses.Intake.Attempts)
	data, err := worker.s3.getSourceDocument(task)
	if err != nil {
		task.intakeLogger.Err(err).Caller().Msg("Could not fetch XML document from s3")
		return result, fmt.Errorf("failed fetch data from s3: %w", err)
	}
	request := pipeline.Request{
		Tid:  task.redisKey,
		Data: data,
	}
	result, ok := <-worker.ppln(request)
	if !ok {
		task.intakeLogger.Error().Msg("Pipeline channel was closed before returning anything")
		return result, errors.New("pipeline channel was closed before returning anything")
	}
	task.intakeLogger.Info().Msg("Finished pipeline, saving results to s3")
	buf, err := json.Marshal(result)
	if err != nil {
		task.intakeLogger.Err(err).Msg("Failed to marshal pipeline result")
		return result, err
	}
	if err = worker.s3.saveResultsFile(task, string(buf)); err != nil {
		task.intakeLogger.Err(err).Msg("Got error while trying to save results")
		return result, err
	}
	return result, nil
}

func (worker *Worker) shouldPerformTask(task *Task) (bool, error) {
	taskInfo := task.docTask.TaskStatuses.Intake
	taskLogger := task.intakeLogger

	if taskInfo.Status.Complete() {
		taskLogger.Info().Msg("Task is already done. (might indicate issue acking message with RMQ). Sending back to Sequencer.")
		return false, nil
	}
	batchTask, err := worker.redis.getBatchTask(task)
	if err != nil {
		taskLogger.Err(err).Msg("Failed to query batch task for document task")
		return false, err
	}
	if batchTask.UserCanceled {
		taskLogger.Info().Msg("Batch was canceled, no need to perform this task. Sending back to Sequencer.")
		err := worker.redis.onTaskCancelled(task)
		return false, err
	}
	if batchTask.StopBatchOnFailure && len(batchTask.FailedDocuments) > 0 {
		failedDoc := batchTask.FailedDocuments[0]
		taskLogger.Info().Msgf("Task is not required because document \"%s\" already completed failure "+
			"and the batch won't be processed further. Sending back to Sequencer.", failedDoc)
		err := worker.redis.onTaskCancelled(
			task,
			fmt.Sprintf(
				"Task was canceled because document \"%s\" failed "+
					"and the batch is configured to stop on failure.",
				failedDoc,
			),
		)
		return false, err
	}
	if taskInfo.Attempts >= worker.config.TaskMaxRetries {
		taskLogger.Info().Msg("Intake task has exceeded retries. Sending back to Sequencer.")
		err = worker.redis.onTaskExceededRetries(task, worker.config.TaskMaxRetries)
		return false, err
	}
	return true, nil
}
