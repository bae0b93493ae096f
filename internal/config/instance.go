package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"jobSched/internal/sched"
)

// Instance is the file form of a problem.
type Instance struct {
	Name      string         `yaml:"name,omitempty"`
	Jobs      []JobSpec      `yaml:"jobs"`
	Resources []ResourceSpec `yaml:"resources"`
}

type JobSpec struct {
	ID             int  `yaml:"id"`
	ProcessingTime int  `yaml:"processing_time"`
	Dependency     *int `yaml:"dependency,omitempty"`
}

type ResourceSpec struct {
	ID       int `yaml:"id"`
	Capacity int `yaml:"capacity"`
}

// Problem builds a validated problem from the file form.
func (in Instance) Problem() (*sched.Problem, error) {
	jobs := make([]sched.Job, 0, len(in.Jobs))
	for _, js := range in.Jobs {
		var (
			j   sched.Job
			err error
		)
		if js.Dependency != nil {
			j, err = sched.NewDependentJob(js.ID, js.ProcessingTime, *js.Dependency)
		} else {
			j, err = sched.NewJob(js.ID, js.ProcessingTime)
		}
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	resources := make([]sched.Resource, 0, len(in.Resources))
	for _, rs := range in.Resources {
		r, err := sched.NewResource(rs.ID, rs.Capacity)
		if err != nil {
			return nil, err
		}
		resources = append(resources, r)
	}
	return sched.NewProblem(jobs, resources)
}

// FromProblem converts a problem back to its file form.
func FromProblem(name string, p *sched.Problem) Instance {
	in := Instance{Name: name}
	for _, j := range p.Jobs() {
		js := JobSpec{ID: j.ID(), ProcessingTime: j.ProcessingTime()}
		if dep, ok := j.Dependency(); ok {
			js.Dependency = &dep
		}
		in.Jobs = append(in.Jobs, js)
	}
	for _, r := range p.Resources() {
		in.Resources = append(in.Resources, ResourceSpec{ID: r.ID(), Capacity: r.Capacity()})
	}
	return in
}

type instanceFile struct {
	Instances []Instance `yaml:"instances"`
}

// LoadInstances reads a YAML file with an "instances" list.
func LoadInstances(path string) ([]Instance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading instances file: %w", err)
	}
	var f instanceFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing instances file: %w", err)
	}
	if len(f.Instances) == 0 {
		return nil, fmt.Errorf("instances file %s has no instances", path)
	}
	return f.Instances, nil
}

// WriteInstances writes instances in the format LoadInstances reads.
func WriteInstances(path string, instances []Instance) error {
	data, err := yaml.Marshal(instanceFile{Instances: instances})
	if err != nil {
		return fmt.Errorf("encoding instances: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
