// Package videoio reads and writes frame sequences for the datamosh engine.
//
// The engine itself knows nothing about containers or codecs. This package
// decodes PNG directories, animated WebP and MPEG-1 into float RGBA buffers
// and encodes results back to PNG directories or lossless animated WebP.
// Colors are converted at 8 bits per channel.
package videoio
