// Package outline builds a folder.Folder from a LaTeX tune-book outline.
//
// The outline names sections with \section{...}, sets with \subsection{...},
// and pulls tunes in with \abcinput{file}, where file.abc lives next to the
// outline. Plain text between a subsection and its first tune becomes the
// set's notes. All reads go through an fs.FS supplied by the caller.
package outline
