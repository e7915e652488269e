package hcl

// fileRoot is the shape of a flowbench HCL file. Every top-level attribute
// is optional; unset attributes keep their defaults.
type fileRoot struct {
	InstanceCount   *int           `hcl:"instance_count,optional"`
	VertexCount     *int           `hcl:"vertex_count,optional"`
	OutputDirectory *string        `hcl:"output_directory,optional"`
	TestsDir        *string        `hcl:"tests_dir,optional"`
	ResultsDir      *string        `hcl:"results_dir,optional"`
	Seed            *uint64        `hcl:"seed,optional"`
	Timeout         *string        `hcl:"timeout,optional"`
	ExitPolicy      *string        `hcl:"exit_policy,optional"`
	RecordFormat    *string        `hcl:"record_format,optional"`
	Capacity        *capacityBlock `hcl:"capacity,block"`
	Solvers         []*solverBlock `hcl:"solver,block"`
}

// capacityBlock is the `capacity { min = .. max = .. }` block.
type capacityBlock struct {
	Min *int `hcl:"min,optional"`
	Max *int `hcl:"max,optional"`
}

// solverBlock is a `solver "<name>" { ... }` block.
type solverBlock struct {
	Name       string            `hcl:"name,label"`
	Executable string            `hcl:"executable"`
	Args       []string          `hcl:"args,optional"`
	Env        map[string]string `hcl:"env,optional"`
	Timeout    *string           `hcl:"timeout,optional"`
}
