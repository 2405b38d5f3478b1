package sched

import (
	"encoding/json"
	"io/ioutil"

	"github.com/pkg/errors"

	"github.com/twitter/smoke/cloud/master"
)

// JobSpec is the external job descriptor, supplied inline via flags or as
// an entry in a JSON jobs file. Resource specs use the flat
// "name:value;name:value" form, e.g. "cpus:1;mem:128".
type JobSpec struct {
	Command            string `json:"command"`
	Resources          string `json:"resources"`
	RevocableResources string `json:"revocable_resources,omitempty"`
	// TotalTasks absent or zero means an endless job.
	TotalTasks     int    `json:"total_tasks,omitempty"`
	TargetHostname string `json:"target_hostname,omitempty"`
	URI            string `json:"uri,omitempty"`
}

// Job validates the spec and builds a Job from it. Revocable resources, if
// any, are folded into the task's resource vector marked revocable.
func (s *JobSpec) Job() (*Job, error) {
	if s.Command == "" {
		return nil, errors.New("job spec is missing a command")
	}
	resources, err := master.ParseResources(s.Resources)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid resources for command %q", s.Command)
	}
	if s.RevocableResources != "" {
		revocable, err := master.ParseResources(s.RevocableResources)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid revocable resources for command %q", s.Command)
		}
		resources = resources.Plus(revocable.Revocable())
	}
	if s.TotalTasks < 0 {
		return nil, errors.Errorf("negative total_tasks %d for command %q", s.TotalTasks, s.Command)
	}
	return &Job{
		Command:        s.Command,
		TaskResources:  resources,
		TotalTasks:     s.TotalTasks,
		TargetHostname: s.TargetHostname,
		URI:            s.URI,
	}, nil
}

// Revocable reports whether the spec includes a revocable component, which
// requires advertising the revocable-resources capability at registration.
func (s *JobSpec) Revocable() bool {
	return s.RevocableResources != ""
}

// ReadJobsFile loads a JSON array of JobSpecs and builds Jobs from them.
func ReadJobsFile(path string) ([]*Job, []JobSpec, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "could not read jobs file %s", path)
	}
	var specs []JobSpec
	if err := json.Unmarshal(data, &specs); err != nil {
		return nil, nil, errors.Wrapf(err, "could not parse jobs file %s", path)
	}
	if len(specs) == 0 {
		return nil, nil, errors.Errorf("jobs file %s defines no jobs", path)
	}
	jobs := make([]*Job, 0, len(specs))
	for i := range specs {
		job, err := specs[i].Job()
		if err != nil {
			return nil, nil, errors.Wrapf(err, "jobs file %s entry %d", path, i)
		}
		jobs = append(jobs, job)
	}
	return jobs, specs, nil
}
