package config

import (
	"errors"
	"time"
)

const (
	ClassicQueueType = "classic"
	QuorumQueueType  = "quorum"
)

type QueueConfig struct {
	QueueUser              string        `mapstructure:"queue_user"`
	QueuePassword          string        `mapstructure:"queue_password"`
	Url                    string        `mapstructure:"url"`
	QueueProcessingTimeout time.Duration `mapstructure:"processing_timeout"`
	MsgMaxRetryAttempts    uint          `mapstructure:"msg_max_retry_attempts"`
	RetryInterval          time.Duration `mapstructure:"retry_interval"`
	QueueType              string        `mapstructure:"queue_type"`
}

func (cfg *QueueConfig) Validate() error {
	if cfg.QueueUser == "" {
		return errors.New("missing queue user")
	}

	if cfg.QueuePassword == "" {
		return errors.New("missing queue password")
	}

	if cfg.Url == "" {
		return errors.New("missing queue url")
	}

	if cfg.QueueProcessingTimeout <= 0 {
		return errors.New("invalid queue processing timeout")
	}

	if cfg.MsgMaxRetryAttempts == 0 {
		return errors.New("invalid queue max retry attempts")
	}

	if cfg.RetryInterval <= 0 {
		return errors.New("invalid queue retry interval")
	}

	if cfg.QueueType != ClassicQueueType && cfg.QueueType != QuorumQueueType {
		return errors.New("queue type must be classic or quorum")
	}

	return nil
}
