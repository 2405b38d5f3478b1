package scheduler

import (
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/twitter/smoke/cloud/master"
	"github.com/twitter/smoke/cloud/master/fake"
	"github.com/twitter/smoke/common/stats"
	"github.com/twitter/smoke/sched"
)

func makeOffer(id master.OfferID, host string, resources string) master.Offer {
	parsed, err := master.ParseResources(resources)
	if err != nil {
		panic(err)
	}
	return master.Offer{ID: id, AgentID: master.AgentID("agent-" + host), Hostname: host, Resources: parsed}
}

func Test_Scheduler_PacksOfferIntoOneLaunch(t *testing.T) {
	job := makeJob("echo hello", "cpus:1;mem:128", 2)
	s := NewScheduler([]*sched.Job{job}, stats.NilStatsReceiver())
	driver := fake.NewDriver()

	s.ResourceOffers(driver, []master.Offer{makeOffer("o1", "h1", "cpus:2;mem:256")})

	if len(driver.Accepts) != 1 {
		t.Fatalf("Expected one accept, got %s", driver)
	}
	if len(driver.Accepts[0].Operations) != 1 {
		t.Fatalf("Expected a single launch operation, got %s", driver)
	}
	tasks := driver.LaunchedTasks()
	if len(tasks) != 2 {
		t.Fatalf("Expected both tasks in one launch, got %d", len(tasks))
	}
	if tasks[0].ID != "0_0" || tasks[1].ID != "0_1" {
		t.Errorf("Wrong task ids: %s, %s", tasks[0].ID, tasks[1].ID)
	}
	if !job.Scheduled {
		t.Errorf("Job should be fully scheduled")
	}
}

func Test_Scheduler_SuccessResultAndStop(t *testing.T) {
	job := makeJob("echo hello", "cpus:1;mem:128", 2)
	s := NewScheduler([]*sched.Job{job}, stats.NilStatsReceiver())
	driver := fake.NewDriver()

	s.ResourceOffers(driver, []master.Offer{makeOffer("o1", "h1", "cpus:2;mem:256")})
	s.StatusUpdate(driver, master.TaskStatus{TaskID: "0_0", State: master.TaskFinished})
	if driver.Stopped {
		t.Fatalf("Driver stopped before all tasks finished")
	}
	s.StatusUpdate(driver, master.TaskStatus{TaskID: "0_1", State: master.TaskFinished})

	if !driver.Stopped {
		t.Fatalf("Driver should stop once all tasks finish")
	}
	select {
	case result := <-s.Result():
		if !result.Success || result.AbnormalTasks != 0 || result.TasksLaunched != 2 {
			t.Errorf("Wrong result: %+v", result)
		}
	default:
		t.Errorf("Expected a delivered result")
	}
}

func Test_Scheduler_FailureCountsAbnormalTasks(t *testing.T) {
	job := makeJob("echo hello", "cpus:1;mem:128", 2)
	s := NewScheduler([]*sched.Job{job}, stats.NilStatsReceiver())
	driver := fake.NewDriver()

	s.ResourceOffers(driver, []master.Offer{makeOffer("o1", "h1", "cpus:2;mem:256")})
	s.StatusUpdate(driver, master.TaskStatus{TaskID: "0_0", State: master.TaskFinished})
	s.StatusUpdate(driver, master.TaskStatus{TaskID: "0_1", State: master.TaskFailed, Reason: "oom"})

	if !driver.Stopped {
		t.Fatalf("Driver should stop once all tasks terminate")
	}
	select {
	case result := <-s.Result():
		if result.Success || result.AbnormalTasks != 1 || result.TasksLaunched != 2 {
			t.Errorf("Wrong result: %+v", result)
		}
	default:
		t.Errorf("Expected a delivered result")
	}
}

func Test_Scheduler_InsufficientOfferAcceptedEmpty(t *testing.T) {
	job := makeJob("echo hello", "cpus:4;mem:1024", 1)
	s := NewScheduler([]*sched.Job{job}, stats.NilStatsReceiver())
	driver := fake.NewDriver()

	s.ResourceOffers(driver, []master.Offer{makeOffer("o1", "h1", "cpus:1;mem:128")})

	// The offer is still answered, with a launch operation carrying no tasks.
	if len(driver.Accepts) != 1 || len(driver.LaunchedTasks()) != 0 {
		t.Fatalf("Expected one empty accept, got %s", driver)
	}
	if len(driver.Declines) != 0 {
		t.Errorf("Undersized offers are accepted empty, not declined")
	}
	if job.Scheduled || job.TasksLaunched != 0 {
		t.Errorf("Job should remain unscheduled")
	}
}

func Test_Scheduler_TargetHostMismatchSkipsOffer(t *testing.T) {
	job := makeJob("echo hello", "cpus:1", 1)
	job.TargetHostname = "wanted-host"
	s := NewScheduler([]*sched.Job{job}, stats.NilStatsReceiver())
	driver := fake.NewDriver()

	s.ResourceOffers(driver, []master.Offer{makeOffer("o1", "other-host", "cpus:2")})

	// Mismatched offers pass without an answer this round.
	if len(driver.Accepts) != 0 || len(driver.Declines) != 0 {
		t.Fatalf("Mismatched offer should be skipped, got %s", driver)
	}

	s.ResourceOffers(driver, []master.Offer{makeOffer("o2", "wanted-host", "cpus:2")})
	if len(driver.LaunchedTasks()) != 1 {
		t.Errorf("Matching host should launch, got %s", driver)
	}
}

func Test_Scheduler_DeclinesForeverWhenDone(t *testing.T) {
	job := makeJob("echo hello", "cpus:1", 1)
	s := NewScheduler([]*sched.Job{job}, stats.NilStatsReceiver())
	driver := fake.NewDriver()

	s.ResourceOffers(driver, []master.Offer{makeOffer("o1", "h1", "cpus:2")})
	s.ResourceOffers(driver, []master.Offer{makeOffer("o2", "h1", "cpus:2")})

	if len(driver.Declines) != 1 {
		t.Fatalf("Expected the post-scheduling offer declined, got %s", driver)
	}
	decline := driver.Declines[0]
	if decline.OfferID != "o2" {
		t.Errorf("Wrong offer declined: %s", decline.OfferID)
	}
	if decline.Filters.RefuseSeconds != master.MaxRefuseSeconds {
		t.Errorf("Done scheduler should refuse offers for as long as possible, got %f", decline.Filters.RefuseSeconds)
	}
}

func Test_Scheduler_EndlessNeverStops(t *testing.T) {
	job := makeJob("spin", "cpus:1", 0)
	s := NewScheduler([]*sched.Job{job}, stats.NilStatsReceiver())
	driver := fake.NewDriver()

	for round := 0; round < 5; round++ {
		s.ResourceOffers(driver, []master.Offer{makeOffer("o1", "h1", "cpus:1")})
	}
	for _, task := range driver.LaunchedTasks() {
		s.StatusUpdate(driver, master.TaskStatus{TaskID: task.ID, State: master.TaskFinished})
	}

	if driver.Stopped || driver.Aborted {
		t.Fatalf("Endless job should never stop the driver")
	}
	if len(driver.LaunchedTasks()) != 5 {
		t.Errorf("Endless job should take every offer, got %d tasks", len(driver.LaunchedTasks()))
	}
	select {
	case result := <-s.Result():
		t.Errorf("Endless run should deliver no result, got %+v", result)
	default:
	}
}

func Test_Scheduler_UnknownStatusIgnored(t *testing.T) {
	job := makeJob("echo hello", "cpus:1", 1)
	s := NewScheduler([]*sched.Job{job}, stats.NilStatsReceiver())
	driver := fake.NewDriver()

	s.ResourceOffers(driver, []master.Offer{makeOffer("o1", "h1", "cpus:1")})
	s.StatusUpdate(driver, master.TaskStatus{TaskID: "9_9", State: master.TaskFailed})

	if driver.Stopped {
		t.Fatalf("Unknown task update must not stop the run")
	}
	if s.ledger.tasksTerminated != 0 {
		t.Errorf("Unknown task update should change no counters")
	}
}

func Test_Scheduler_ResultDeliveredOnce(t *testing.T) {
	job := makeJob("echo hello", "cpus:1", 1)
	s := NewScheduler([]*sched.Job{job}, stats.NilStatsReceiver())
	driver := fake.NewDriver()

	s.ResourceOffers(driver, []master.Offer{makeOffer("o1", "h1", "cpus:1")})
	s.StatusUpdate(driver, master.TaskStatus{TaskID: "0_0", State: master.TaskFinished})

	<-s.Result()
	select {
	case result := <-s.Result():
		t.Errorf("Result should be delivered exactly once, got %+v again", result)
	default:
	}
}

func Test_Scheduler_MockDriverInteraction(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()
	driver := master.NewMockDriver(mockCtrl)

	job := makeJob("echo hello", "cpus:1;mem:128", 1)
	s := NewScheduler([]*sched.Job{job}, stats.NilStatsReceiver())

	driver.EXPECT().AcceptOffers(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	driver.EXPECT().Stop()

	s.Registered(driver, "framework-1", master.MasterInfo{Hostname: "m", Port: 5050})
	s.ResourceOffers(driver, []master.Offer{makeOffer("o1", "h1", "cpus:1;mem:128")})
	s.StatusUpdate(driver, master.TaskStatus{TaskID: "0_0", State: master.TaskFinished})
}
