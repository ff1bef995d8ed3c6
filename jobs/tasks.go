package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskRetentionPurchases purges purchase records past their retention window.
	TaskRetentionPurchases = "retention:purchases"
	// TaskRetentionSales purges sale records past their retention window.
	TaskRetentionSales = "retention:sales"
)

// RetentionPayload carries an explicit window. A non-positive MonthsOld defers to
// the config table and then to the process default.
type RetentionPayload struct {
	MonthsOld int `json:"monthsOld,omitempty"`
}

// NewRetentionTask constructs a retention task of the given type.
func NewRetentionTask(taskType string, monthsOld int) (*asynq.Task, error) {
	switch taskType {
	case TaskRetentionPurchases, TaskRetentionSales:
	default:
		return nil, fmt.Errorf("jobs: unknown retention task %q", taskType)
	}
	data, err := json.Marshal(RetentionPayload{MonthsOld: monthsOld})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(taskType, data), nil
}

func decodeRetentionPayload(raw []byte) (RetentionPayload, error) {
	var payload RetentionPayload
	if len(raw) == 0 {
		return payload, nil
	}
	err := json.Unmarshal(raw, &payload)
	return payload, err
}
