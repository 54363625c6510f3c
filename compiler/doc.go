/*

Process of compilation

Source Text ->
	tokenize ->
Token Stream ->
	parse ->
Abstract Syntax Tree (ast) ->
	optimize (optional: fold constants, eliminate dead code) ->
Abstract Syntax Tree (ast) ->
	generate ->
JavaScript Text

Every stage is a pure function of its input. A diagnostic from any stage
aborts the compilation, no partial output is emitted.

*/
package compiler
