/*
Package utils contains decorators that every application stack needs:
panic recovery, transaction logging, savepoints and result tagging.
*/
package utils
