/*
Package numfmt formats integer and decimal displays with a small numeric
format language modelled on d3-format:

	[,][.precision][type]

The optional `,` groups the integer digits in thousands. The precision is the
number of fractional digits. The type is one of:

	f   fixed point, precision defaults to 6
	e   exponent notation, precision defaults to 6
	%   multiply by 100, then fixed point with a `%` suffix
	b   binary notation of the value rounded to an integer
	d   decimal notation of the value rounded to an integer
	    (none) canonical decimal; with a precision, fixed point with trailing
	    zeros removed

Rounding is half-up on the exact decimal value.
*/
package numfmt
