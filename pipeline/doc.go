// Copyright (c) 2025 niichapats.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package pipeline runs strictly ordered build and test steps.

# Pipelines

A Pipeline is a list of Steps run in order against a shared Job. The
first failing step aborts the rest and is reported as a *StepError; the
Result lists what completed.

	res, err := pipeline.CI(opts).Run(ctx, &pipeline.Job{Dir: "."})

# CI

CI runs checkout, provision runtime, install dependencies, materialize
environment, apply migrations and run tests. Trigger restricts it to
push and pull_request events on main or master.

Secrets are copied from a SecretStore into the Job's in-memory Env and
passed to subprocesses through their environment. No environment file
is written.

# Container Build

Build requires the SECRET_KEY build arg before anything else runs:

	No secret key specified in build-arg

ALLOWED_HOSTS defaults to 127.0.0.1,localhost.
*/
package pipeline
