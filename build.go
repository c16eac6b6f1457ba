package main

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/spf13/pflag"
)

// uinput and evdev are linux only
var availableTargets = []target{
	{goos: "linux", goarch: "arm", goarm: "6"},
	{goos: "linux", goarch: "arm", goarm: "7"},
	{goos: "linux", goarch: "arm64"},
	{goos: "linux", goarch: "386"},
	{goos: "linux", goarch: "amd64"},
}

type target struct {
	goos   string
	goarch string
	goarm  string
}

func (t target) String() string {
	if t.goarm != "" {
		return fmt.Sprintf("%s-%s-v%s", t.goos, t.goarch, t.goarm)
	}
	return fmt.Sprintf("%s-%s", t.goos, t.goarch)
}

type buildResult struct {
	target         target
	binary         string
	stdout, stderr string
	err            error
}

type buildOptions struct {
	project  string
	basename string
	debug    bool
	race     bool
}

func (o buildOptions) args(binary string) []string {
	params := []string{"build", "-trimpath", "-o", binary}
	if o.debug {
		params = append(params, "-ldflags", "-X main.debug=true")
	}
	if o.race {
		params = append(params, "-race")
	}
	return append(params, o.project)
}

func build(t target, opts buildOptions) buildResult {
	var binary = fmt.Sprintf("./builds/%s-%s", opts.basename, t.String())

	cmd := exec.Command("go", opts.args(binary)...)
	cmd.Env = append(os.Environ(), fmt.Sprintf("GOOS=%s", t.goos), fmt.Sprintf("GOARCH=%s", t.goarch))
	if t.goarm != "" {
		cmd.Env = append(cmd.Env, fmt.Sprintf("GOARM=%s", t.goarm))
	}
	if opts.race {
		// race detector requires cgo
		cmd.Env = append(cmd.Env, "CGO_ENABLED=1")
	} else {
		cmd.Env = append(cmd.Env, "CGO_ENABLED=0")
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return buildResult{
		target: t,
		binary: binary,
		stdout: stdout.String(),
		stderr: stderr.String(),
		err:    err,
	}
}

func selectTargets(selection string) ([]target, error) {
	if selection == "all" {
		return availableTargets, nil
	}

	var selected []target
	for _, name := range strings.Split(selection, ",") {
		var found bool
		for _, t := range availableTargets {
			if t.String() == name {
				selected = append(selected, t)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("target not found: %s", name)
		}
	}
	return selected, nil
}

func main() {
	log.SetFlags(log.Ltime)

	var names []string
	for _, t := range availableTargets {
		names = append(names, t.String())
	}

	var selection string
	var opts buildOptions
	pflag.StringVar(&selection, "platforms", "all",
		fmt.Sprintf("comma-separated target platform list\navailable: %s", strings.Join(names, ",")))
	pflag.StringVar(&opts.project, "project", "./cmd/padswap/", "choose project directory")
	pflag.StringVar(&opts.basename, "base", "padswap", "base filename for output binaries")
	pflag.BoolVar(&opts.debug, "debug", false, "build with verbose tracing enabled by default")
	pflag.BoolVar(&opts.race, "race", false, "include race detector")
	pflag.Parse()

	targets, err := selectTargets(selection)
	if err != nil {
		log.Printf("%s", err)
		os.Exit(1)
	}
	log.Printf("engaging parallel building for %d targets", len(targets))

	var results = make([]buildResult, len(targets))
	wg := sync.WaitGroup{}
	for i, t := range targets {
		wg.Add(1)
		go func(i int, t target) {
			defer wg.Done()
			results[i] = build(t, opts)
			if results[i].err != nil {
				log.Printf("building target %s failed:  %s", opts.project, t.String())
			} else {
				log.Printf("building target %s success: %s", opts.project, results[i].binary)
			}
		}(i, t)
	}
	wg.Wait()

	var ok = true
	for _, r := range results {
		if r.err == nil {
			continue
		}
		ok = false
		fmt.Printf("\n>>> Failed build: project: %s, target: %s: %v\n", opts.project, r.target.String(), r.err)
		if r.stdout != "" {
			fmt.Printf("======== STDOUT ========\n%s========================\n", r.stdout)
		}
		if r.stderr != "" {
			fmt.Printf("======== STDERR ========\n%s========================\n", r.stderr)
		}
	}

	if !ok {
		os.Exit(1)
	}
}
