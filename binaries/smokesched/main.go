// smokesched registers with a cluster manager and runs smoke jobs against
// its resource offers until all limited jobs complete (or forever, when an
// endless job is supplied).
package main

import (
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/twitter/smoke/cloud/master"
	"github.com/twitter/smoke/cloud/master/httpdriver"
	"github.com/twitter/smoke/common/endpoints"
	"github.com/twitter/smoke/common/stats"
	"github.com/twitter/smoke/sched"
	"github.com/twitter/smoke/sched/scheduler"
)

type options struct {
	masterAddr    string
	frameworkName string
	role          string
	checkpoint    bool
	principal     string
	secret        string

	command            string
	taskResources      string
	revocableResources string
	numTasks           int
	targetHostname     string
	uri                string
	jobsFile           string

	httpAddr string
	logLevel string
}

func main() {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:          "smokesched",
		Short:        "smokesched runs smoke jobs against cluster manager offers",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&opts.masterAddr, "master", "", "cluster manager endpoint, host:port (required)")
	flags.StringVar(&opts.frameworkName, "framework_name", "Smoke Test Framework", "framework name to register with")
	flags.StringVar(&opts.role, "role", "*", "role to register with")
	flags.BoolVar(&opts.checkpoint, "checkpoint", false, "enable framework checkpointing")
	flags.StringVar(&opts.principal, "principal", "", "principal for authentication")
	flags.StringVar(&opts.secret, "secret", "", "secret for authentication")
	flags.StringVar(&opts.command, "command", "echo hello", "command each task runs")
	flags.StringVar(&opts.taskResources, "task_resources", "cpus:1;mem:128", "per-task resources, name:value;...")
	flags.StringVar(&opts.revocableResources, "task_revocable_resources", "", "per-task revocable resources, name:value;...")
	flags.IntVar(&opts.numTasks, "num_tasks", 1, "total tasks to launch; 0 runs the job endlessly")
	flags.StringVar(&opts.targetHostname, "target_hostname", "", "only launch on offers from this host")
	flags.StringVar(&opts.uri, "uri", "", "artifact uri fetched before each task runs")
	flags.StringVar(&opts.jobsFile, "jobs_json", "", "path to a JSON array of job specs; overrides the inline job flags")
	flags.StringVar(&opts.httpAddr, "http_addr", "localhost:9091", "address to serve health and stats on")
	flags.StringVar(&opts.logLevel, "log_level", "info", "logrus log level")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(opts *options) error {
	level, err := log.ParseLevel(opts.logLevel)
	if err != nil {
		return errors.Wrap(err, "invalid --log_level")
	}
	log.SetLevel(level)

	if opts.masterAddr == "" {
		return errors.New("missing required option --master")
	}
	if (opts.principal == "") != (opts.secret == "") {
		return errors.New("both --principal and --secret are required to enable authentication")
	}

	jobs, specs, err := loadJobs(opts)
	if err != nil {
		return err
	}
	enableRevocable := false
	for i := range specs {
		if specs[i].Revocable() {
			enableRevocable = true
		}
	}

	stat := stats.DefaultStatsReceiver()
	go func() {
		server := endpoints.NewTwitterServer(opts.httpAddr, stat)
		log.Error(server.Serve())
	}()

	framework := master.FrameworkInfo{
		User:       "", // the manager fills in the current user
		Name:       opts.frameworkName,
		Role:       opts.role,
		Checkpoint: opts.checkpoint,
		Principal:  opts.principal,
	}
	if enableRevocable {
		log.Info("Enabled getting revocable resources.")
		framework.Capabilities = append(framework.Capabilities, master.RevocableResourcesCapability)
	}

	var credential *master.Credential
	if opts.principal != "" {
		credential = &master.Credential{Principal: opts.principal, Secret: opts.secret}
	}

	smokeSched := scheduler.NewScheduler(jobs, stat.Scope("sched"))
	driver := httpdriver.NewDriver(smokeSched, framework, opts.masterAddr, credential)

	status, err := driver.Run()
	if err != nil {
		return errors.Wrap(err, "driver failed")
	}
	if status != master.DriverStopped {
		return errors.Errorf("driver exited with status %s", status)
	}

	select {
	case result := <-smokeSched.Result():
		if !result.Success {
			return errors.Errorf("failed to complete successfully: %d of %d terminated abnormally",
				result.AbnormalTasks, result.TasksLaunched)
		}
		log.Infof("All %d tasks finished successfully.", result.TasksLaunched)
	default:
		// Stopped externally before the termination policy fired.
	}
	return nil
}

func loadJobs(opts *options) ([]*sched.Job, []sched.JobSpec, error) {
	if opts.jobsFile != "" {
		return sched.ReadJobsFile(opts.jobsFile)
	}
	spec := sched.JobSpec{
		Command:            opts.command,
		Resources:          opts.taskResources,
		RevocableResources: opts.revocableResources,
		TotalTasks:         opts.numTasks,
		TargetHostname:     opts.targetHostname,
		URI:                opts.uri,
	}
	job, err := spec.Job()
	if err != nil {
		return nil, nil, err
	}
	return []*sched.Job{job}, []sched.JobSpec{spec}, nil
}
