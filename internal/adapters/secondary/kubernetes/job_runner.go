package kubernetes

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"workspace-registry-service/internal/config"
	"workspace-registry-service/internal/core/domain"
	ports "workspace-registry-service/internal/core/ports/output"
)

var jobGVR = schema.GroupVersionResource{
	Group:    "batch",
	Version:  "v1",
	Resource: "jobs",
}

type jobRunner struct {
	client    dynamic.Interface
	enabled   bool
	defaultNS string
}

// NewJobRunner creates a Kubernetes batch Job runner for on-cluster dev
// compute.
func NewJobRunner(cfg *config.KubernetesConfig) (ports.JobRunner, error) {
	if !cfg.Enabled {
		return &jobRunner{enabled: false}, nil
	}

	var restCfg *rest.Config
	var err error

	if cfg.InCluster {
		restCfg, err = rest.InClusterConfig()
	} else if cfg.KubeConfigPath != "" {
		restCfg, err = clientcmd.BuildConfigFromFlags("", cfg.KubeConfigPath)
	} else {
		// Try default kubeconfig location
		home, _ := os.UserHomeDir()
		kubeconfig := filepath.Join(home, ".kube", "config")
		restCfg, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
	}
	if err != nil {
		return nil, fmt.Errorf("build k8s config: %w", err)
	}

	client, err := dynamic.NewForConfig(restCfg)
	if err != nil {
		return nil, fmt.Errorf("create dynamic client: %w", err)
	}

	defaultNS := cfg.DefaultNS
	if defaultNS == "" {
		defaultNS = "experiment-runs"
	}

	return &jobRunner{
		client:    client,
		enabled:   true,
		defaultNS: defaultNS,
	}, nil
}

func (c *jobRunner) IsAvailable() bool {
	return c.enabled
}

func jobName(run *domain.ExperimentRun) string {
	return "run-" + run.ID.String()
}

func (c *jobRunner) Submit(ctx context.Context, run *domain.ExperimentRun) (*ports.JobSubmission, error) {
	if !c.enabled {
		return nil, domain.ErrRunnerNotAvailable
	}

	obj := c.buildJob(run)

	created, err := c.client.Resource(jobGVR).
		Namespace(c.defaultNS).
		Create(ctx, obj, metav1.CreateOptions{})
	if err != nil {
		return nil, fmt.Errorf("create batch job: %w", err)
	}

	return &ports.JobSubmission{
		ExternalID: string(created.GetUID()),
		Details:    created.GetName(),
	}, nil
}

func (c *jobRunner) buildJob(run *domain.ExperimentRun) *unstructured.Unstructured {
	env := []interface{}{
		map[string]interface{}{"name": "GIT_COMMIT", "value": run.GitCommit},
	}
	for k, v := range run.Parameters {
		env = append(env, map[string]interface{}{"name": k, "value": v})
	}
	for _, b := range run.DataBindings {
		env = append(env, map[string]interface{}{
			"name":  "DATA_" + domain.Slugify(b.AssetName),
			"value": b.URI,
		})
	}

	container := map[string]interface{}{
		"name":  "experiment",
		"image": run.ContainerImage,
		"env":   env,
	}
	if run.Command != "" {
		container["command"] = []interface{}{"/bin/sh", "-c", run.Command}
	}

	return &unstructured.Unstructured{
		Object: map[string]interface{}{
			"apiVersion": "batch/v1",
			"kind":       "Job",
			"metadata": map[string]interface{}{
				"name":      jobName(run),
				"namespace": c.defaultNS,
				"labels": map[string]interface{}{
					"app.kubernetes.io/managed-by": "workspace-registry",
					"workspace.io/package":         run.PackageName,
					"workspace.io/run-id":          run.ID.String(),
				},
				"annotations": map[string]interface{}{
					"workspace.io/git-commit": run.GitCommit,
				},
			},
			"spec": map[string]interface{}{
				"backoffLimit": int64(0),
				"template": map[string]interface{}{
					"spec": map[string]interface{}{
						"restartPolicy": "Never",
						"containers":    []interface{}{container},
					},
				},
			},
		},
	}
}

func (c *jobRunner) Status(ctx context.Context, run *domain.ExperimentRun) (*ports.JobStatus, error) {
	if !c.enabled {
		return nil, domain.ErrRunnerNotAvailable
	}

	obj, err := c.client.Resource(jobGVR).
		Namespace(c.defaultNS).
		Get(ctx, jobName(run), metav1.GetOptions{})
	if err != nil {
		return nil, fmt.Errorf("get batch job: %w", err)
	}

	succeeded, _, _ := unstructured.NestedInt64(obj.Object, "status", "succeeded")
	failed, _, _ := unstructured.NestedInt64(obj.Object, "status", "failed")
	active, _, _ := unstructured.NestedInt64(obj.Object, "status", "active")

	switch {
	case succeeded > 0:
		return &ports.JobStatus{State: ports.JobStateSucceeded}, nil
	case failed > 0:
		return &ports.JobStatus{State: ports.JobStateFailed, Message: "job pod failed"}, nil
	case active > 0:
		return &ports.JobStatus{State: ports.JobStateRunning}, nil
	default:
		return &ports.JobStatus{State: ports.JobStateQueued}, nil
	}
}

func (c *jobRunner) Cancel(ctx context.Context, run *domain.ExperimentRun) error {
	if !c.enabled {
		return domain.ErrRunnerNotAvailable
	}

	policy := metav1.DeletePropagationBackground
	err := c.client.Resource(jobGVR).
		Namespace(c.defaultNS).
		Delete(ctx, jobName(run), metav1.DeleteOptions{PropagationPolicy: &policy})
	if err != nil {
		return fmt.Errorf("delete batch job: %w", err)
	}
	return nil
}
