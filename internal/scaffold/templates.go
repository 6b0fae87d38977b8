package scaffold

const pyprojectTmpl = `[project]
name = "{{.Name}}"
version = "0.1.0"
description = ""
requires-python = ">=3.11"
dependencies = []

[dependency-groups]
dev = [
    "pytest>=8",
]

[build-system]
requires = ["hatchling"]
build-backend = "hatchling.build"
`

const initTmpl = `"""{{.Name}} package."""
`

const smokeTestTmpl = `import {{.ImportName}}


def test_import():
    assert {{.ImportName}} is not None
`

const dockerfileTmpl = `FROM python:3.11-slim

WORKDIR /app

COPY pyproject.toml ./
COPY src/ src/

RUN pip install --no-cache-dir .

ENTRYPOINT ["python", "-m", "{{.ImportName}}"]
`

const amlJobTmpl = `display_name: {{.Name}}
compute: azureml:cpu-cluster
environment:
  image: {{.Name}}:latest
command: python -m {{.ImportName}}
inputs: {}
`
