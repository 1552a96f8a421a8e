// Package scene renders Phaser state modules and registers them in the
// project's scenes index.
//
// A scene is generated in one of two module styles. CommonJS emits one
// exports assignment per lifecycle method:
//
//	exports.create = function (/*game*/) {
//	  // Build the game objects once assets are ready.
//	};
//
// ESModule emits a class extending Phaser.State:
//
//	export default class Title extends Phaser.State {
//
//	  create() {
//	    // Build the game objects once assets are ready.
//	  }
//
//	}
//
// The index is a barrel file with one export line per scene. New lines are
// appended in whichever style the index already uses.
package scene
