package dashboard

import (
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
)

// DefaultAlertPollInterval is how often active alerts are re-fetched while a
// coordinate is set.
const DefaultAlertPollInterval = 15 * time.Minute

// AlertPoller is the alerts controller with a recurring refresh on top. The
// timer restarts whenever the coordinate changes and stops for good on Stop.
// A tick that fires while a fetch is still in flight is skipped, not queued,
// so polls never stack.
type AlertPoller struct {
	*Controller[[]Alert]

	interval time.Duration

	mu    sync.Mutex
	sched *gocron.Scheduler
}

// NewAlertPoller creates the poller. The interval is configurable so tests
// can run with a short period; zero means the default 15 minutes.
func NewAlertPoller(fetch FetchFunc[[]Alert], interval time.Duration) *AlertPoller {
	if interval <= 0 {
		interval = DefaultAlertPollInterval
	}
	return &AlertPoller{
		Controller: NewController[[]Alert]("alerts", fetch),
		interval:   interval,
	}
}

// SetLocation repoints the controller and restarts the poll timer.
func (p *AlertPoller) SetLocation(coord Coordinate) {
	p.Controller.SetLocation(coord)
	p.restartTimer()
}

func (p *AlertPoller) restartTimer() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sched != nil {
		p.sched.Stop()
	}

	s := gocron.NewScheduler(time.UTC)
	if _, err := s.Every(p.interval).Do(p.tick); err != nil {
		log.Printf("alerts: failed to schedule poll: %v", err)
		return
	}
	s.StartAsync()
	p.sched = s
}

// tick runs on the poll interval. Refresh already ignores re-entrant calls
// while a fetch is in flight, which is exactly the skip-don't-queue rule.
func (p *AlertPoller) tick() {
	p.Refresh()
}

// Stop cancels the recurring poll and tears down the controller.
// No further fetch is initiated after Stop returns.
func (p *AlertPoller) Stop() {
	p.mu.Lock()
	if p.sched != nil {
		p.sched.Stop()
		p.sched = nil
	}
	p.mu.Unlock()

	p.Controller.Close()
}
