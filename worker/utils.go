package worker

import (
	"time"

	"github.com/0xMailMan/violette-easya-sub000/log"
)

var (
	restIntervalInConfirmJob = 10 * time.Second
	restIntervalInVerifyJob  = 10 * time.Second

	maxPendingLifetime = int64(7 * 24 * 3600)
)

func now() int64 {
	return time.Now().Unix()
}

func logWorker(job, subject string, context ...interface{}) {
	log.Info("["+job+"] "+subject, context...)
}

func logWorkerError(job, subject string, err error, context ...interface{}) {
	fields := []interface{}{"err", err}
	fields = append(fields, context...)
	log.Error("["+job+"] "+subject, fields...)
}

func logWorkerTrace(job, subject string, context ...interface{}) {
	log.Trace("["+job+"] "+subject, context...)
}

func restInJob(duration time.Duration) {
	time.Sleep(duration)
}
