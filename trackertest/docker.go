package trackertest

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"testing"

	"github.com/ory/dockertest"
)

// DockerServiceConfig describes a throwaway container and how to build a
// client for it once its port is published.
type DockerServiceConfig[T any] struct {
	DockerImage    string
	DockerImageTag string
	InternalPort   int
	Environment    map[string]string
	Builder        func(host string, port int) (T, error)
}

func (config DockerServiceConfig[T]) env() []string {
	env := []string{}
	for key, value := range config.Environment {
		env = append(env, fmt.Sprintf("%s=%s", key, value))
	}

	return env
}

// GetDockerService starts the container, retries Builder until it succeeds
// and purges the container when the test ends. It skips in -short mode.
func GetDockerService[T any](t *testing.T, config DockerServiceConfig[T]) T {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping docker backed test in short mode.")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("Could not construct docker pool: %s", err)
	}

	if err := pool.Client.Ping(); err != nil {
		t.Fatalf("Could not connect to docker: %s", err)
	}

	resource, err := pool.Run(config.DockerImage, config.DockerImageTag, config.env())
	if err != nil {
		t.Fatalf("Could not start %s:%s: %s", config.DockerImage, config.DockerImageTag, err)
	}

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Errorf("Could not purge %s: %s", config.DockerImage, err)
		}
	})

	hostURL := os.Getenv("DOCKER_HOST")
	if hostURL == "" {
		hostURL = "tcp://" + resource.GetHostPort(fmt.Sprintf("%d/tcp", config.InternalPort))
	}

	parsedURL, err := url.Parse(hostURL)
	if err != nil {
		t.Fatalf("Could not parse docker host %q: %s", hostURL, err)
	}

	port, _ := strconv.Atoi(parsedURL.Port())

	var client T
	if err := pool.Retry(func() error {
		var err error
		client, err = config.Builder(parsedURL.Hostname(), port)

		return err
	}); err != nil {
		t.Fatalf("Could not reach %s: %s", config.DockerImage, err)
	}

	return client
}
