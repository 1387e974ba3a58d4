/*
Package rawline reads single lines of raw keyboard input.

A Controller switches the terminal on standard input into raw mode for the
duration of one read (canonical input and echo off, reads returning after
one byte), hands the terminal to a LineReader, and restores the saved
attributes afterwards on every exit path. Before any attribute is touched
the Controller checks that standard input is a terminal and that TERM names
an entry in the terminfo database.

Editor is the bundled LineReader. Only one session may hold the terminal at
a time; a second OpenSession while one is active fails with
ErrSessionAlreadyActive.
*/
package rawline
