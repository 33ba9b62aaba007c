/*
Package utils contains the decorators every application stack is built
from: panic recovery, transaction logging, savepoints, action tags and
prometheus metrics.
*/
package utils
