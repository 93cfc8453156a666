package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/olahol/melody"
	"github.com/robfig/cron/v3"
)

// OfflineReactivator brings services back online when their come-back time
// has elapsed
type OfflineReactivator interface {
	ReactivateDue(now time.Time) (int, error)
}

var offlineReactivator OfflineReactivator

// SetOfflineReactivator wires the implementation used by the cron job
func SetOfflineReactivator(r OfflineReactivator) {
	offlineReactivator = r
}

// InitCronJobs registers and starts the scheduled jobs
func InitCronJobs(c *cron.Cron, m *melody.Melody) error {
	// Every 5 minutes: reactivate services whose come-back time elapsed
	_, err := c.AddFunc("*/5 * * * *", func() {
		if offlineReactivator == nil {
			log.Printf("Offline reactivator not configured, skipping run")
			return
		}
		count, err := offlineReactivator.ReactivateDue(time.Now())
		if err != nil {
			log.Printf("Offline reactivation run failed: %v", err)
			return
		}
		if count > 0 {
			log.Printf("Reactivated %d services", count)
			if m != nil {
				m.Broadcast([]byte(fmt.Sprintf("%d services are back online", count)))
			}
		}
	})
	if err != nil {
		return err
	}

	c.Start()
	log.Println("Cron jobs initialized successfully")
	return nil
}
