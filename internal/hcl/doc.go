// Package hcl provides the HCL implementation of config.Loader and the
// template writer behind `flowbench init`. It is responsible for file
// parsing, expression evaluation and translation into the config model.
//
// `solver` blocks replace the default solvers as a whole. A file without any
// solver block keeps the defaults; HCL has no way to spell an empty list.
package hcl
