/*
Package gconf implements a configuration store intended to be used as a
global, in-database configuration.

Each extension owns a single configuration object, stored under its package
name. The object is loaded from the genesis file ("conf" section) and read
back by handlers on every request.
*/
package gconf
